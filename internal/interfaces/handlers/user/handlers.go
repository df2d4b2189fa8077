package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	usersvc "inventory-backend/internal/application/user"
	"inventory-backend/internal/middleware"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/constants"
	"inventory-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds the user service.
type Handlers struct {
	Service *usersvc.Service
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// changePasswordRequest accepts userId as a JSON number or string.
type changePasswordRequest struct {
	UserID      json.Number `json:"userId"`
	NewPassword string      `json:"newPassword"`
}

// Signup POST /user/signup
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req usersvc.SignupInput
	if err := parseBody(c, &req); err != nil {
		return response.Fail(c, err)
	}
	u, err := h.Service.Signup(c.UserContext(), req)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"id":      u.ID,
		"role":    u.Role,
	})
}

// Signin POST /user/signin
func (h *Handlers) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := parseBody(c, &req); err != nil {
		return response.Fail(c, err)
	}
	res, err := h.Service.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"message":    "Login successful",
		"data":       res.User,
	})
}

// GetCurrentUser GET /user/getuser (requires auth)
func (h *Handlers) GetCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	p, err := h.Service.Current(c.UserContext(), user.UserID)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(p)
}

// GetAllUsers GET /user/all (admin)
func (h *Handlers) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.Service.List(c.UserContext())
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Users fetched successfully", "users": users})
}

// ChangePassword PUT /user/change-password (admin)
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return response.Fail(c, err)
	}
	id, _ := strconv.ParseUint(req.UserID.String(), 10, 64)
	if err := h.Service.ChangePassword(c.UserContext(), uint(id), req.NewPassword); err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ToggleStatus PATCH /user/toggle-status/:userId (admin)
func (h *Handlers) ToggleStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return response.Fail(c, apperr.NotFound("User not found"))
	}
	next, err := h.Service.ToggleStatus(c.UserContext(), uint(id))
	if err != nil {
		return response.Fail(c, err)
	}
	verb := "unblocked"
	if next == constants.StatusBlocked {
		verb = "blocked"
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("User %s successfully", verb),
		"status":  next,
	})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}
