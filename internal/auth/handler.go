package auth

import (
	"errors"
	"log"

	"florist-backend/internal/config"
	"florist-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type UserResponse struct {
	Login string               `json:"login"`
	Role  models.UserRole      `json:"role"`
	Title models.PositionTitle `json:"title"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{Login: u.Login, Role: u.Role, Title: u.Role.Title()}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}

		user, err := Authenticate(cfg.Users, body.Login, body.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, "Неверный логин или пароль!")
		}
		if err != nil {
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.TokenTTL, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось создать токен")
		}

		log.Printf("login: %s (%s)", user.Login, user.Role)
		return c.JSON(LoginResponse{Token: token, User: toUserResponse(user)})
	}
}

// GET /api/auth/me
func MeHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := cfg.Users[CurrentLogin(c)]
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Требуется авторизация")
		}
		return c.JSON(toUserResponse(user))
	}
}
