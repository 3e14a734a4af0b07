package middleware

import (
	"strconv"
	"time"

	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
)

// GenerateRateLimit จำกัดจำนวนครั้งที่ผู้ใช้เรียก AI generate ต่อนาที
// ไม่มี Redis หรือ perMinute <= 0 คือไม่จำกัด
func GenerateRateLimit(counter *utils.WindowCounter, perMinute int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if perMinute <= 0 {
			return c.Next()
		}

		key := UserID(c)
		if key == "" {
			key = c.IP()
		}

		n, err := counter.Hit(c.UserContext(), key, time.Now())
		if err != nil {
			// Redis ล่ม ปล่อยผ่าน
			return c.Next()
		}
		if n > int64(perMinute) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(60-time.Now().Second()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many generate requests, try again in a minute"})
		}
		return c.Next()
	}
}
