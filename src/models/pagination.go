package models

import "math"

// DefaultSubmissionPageSize matches the page size of the submissions dashboard.
const DefaultSubmissionPageSize = 25

// PaginationParams ใช้เก็บค่าการแบ่งหน้าและคำค้นหา
type PaginationParams struct {
	Page   int    `json:"page" query:"page" example:"1"`     // หมายเลขหน้าที่ต้องการ
	Limit  int    `json:"limit" query:"limit" example:"25"`  // จำนวนรายการต่อหน้า
	Search string `json:"search" query:"search" example:""` // คำค้นหา (Optional)
}

// PaginatedResponse โครงสร้างการตอบกลับแบบแบ่งหน้า
type PaginatedResponse struct {
	Data        interface{} `json:"data"`
	Total       int64       `json:"total"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	TotalPages  int         `json:"totalPages"`
	HasNext     bool        `json:"hasNext"`
	HasPrevious bool        `json:"hasPrevious"`
}

// DefaultPagination ค่าตั้งต้นสำหรับ Pagination
func DefaultPagination() PaginationParams {
	return PaginationParams{
		Page:  1,
		Limit: DefaultSubmissionPageSize,
	}
}

// Normalize clamps page and limit into usable values.
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultSubmissionPageSize
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
}

// NewPaginatedResponse สร้าง PaginatedResponse ใหม่
func NewPaginatedResponse(data interface{}, total int64, params PaginationParams) *PaginatedResponse {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return &PaginatedResponse{
		Data:        data,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  totalPages,
		HasNext:     params.Page < totalPages,
		HasPrevious: params.Page > 1,
	}
}

// GetSkip คำนวณจำนวนรายการที่ต้องข้าม
func (p *PaginationParams) GetSkip() int64 {
	return int64((p.Page - 1) * p.Limit)
}
