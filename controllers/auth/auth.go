package authController

import (
	"errors"
	"time"

	"lingo/apierr"
	"lingo/dbctx"
	"lingo/logger"
	"lingo/middleware"
	"lingo/models"
	"lingo/repositories"
	authValidator "lingo/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLogins   = 3
	loginBlockTime    = 1 * time.Minute
	failedLoginWindow = 15 * time.Minute
)

type Controller struct {
	users     repositories.UserRepo
	saltRound int
	log       *logger.Logger
}

func New(users repositories.UserRepo, saltRound int, log *logger.Logger) *Controller {
	if saltRound < bcrypt.MinCost {
		saltRound = bcrypt.DefaultCost
	}
	return &Controller{users: users, saltRound: saltRound, log: log.With("controller", "AuthController")}
}

func (ac *Controller) Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	ctx := dbctx.Context{Ctx: c.UserContext()}

	// Check if email already exists
	_, err := ac.users.GetByEmail(ctx, reqData.Email)
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}
	if !errors.Is(err, apierr.ErrNotFound) {
		return middleware.ErrorResponse(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), ac.saltRound)
	if err != nil {
		ac.log.Error("hash password failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		PublicID: uuid.NewString(),
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
	}
	if err := ac.users.Create(ctx, &newUser); err != nil {
		ac.log.Error("create user failed", "email", reqData.Email, "error", err)
		return middleware.ErrorResponse(c, err)
	}

	token, err := middleware.GenerateJWT(newUser.PublicID, newUser.Name, newUser.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	ac.log.Info("user signed up", "user_id", newUser.PublicID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Signup successful.", fiber.Map{
		"user":  newUser,
		"token": token,
	})
}

func (ac *Controller) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	ctx := dbctx.Context{Ctx: c.UserContext()}

	user, err := ac.users.GetByEmail(ctx, reqData.Email)
	if err != nil {
		if errors.Is(err, apierr.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	now := time.Now()

	// Check if the user is blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failedLoginWindow {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after repeated failures
		if user.FailedLoginAttempts >= maxFailedLogins {
			user.IsBlocked = true
			unblockTime := now.Add(loginBlockTime)
			user.BlockedUntil = &unblockTime
			ac.log.Warn("user blocked after failed logins", "user_id", user.PublicID, "attempts", user.FailedLoginAttempts)
		}
		if err := ac.users.Save(ctx, user); err != nil {
			ac.log.Error("save failed login failed", "user_id", user.PublicID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.IsBlocked = false
	user.BlockedUntil = nil
	if err := ac.users.Save(ctx, user); err != nil {
		ac.log.Error("save last login failed", "user_id", user.PublicID, "error", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := ac.users.TrackLogin(ctx, &loginTracking); err != nil {
		ac.log.Error("save login tracking failed", "user_id", user.PublicID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.PublicID, user.Name, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	ac.log.Info("user logged in", "user_id", user.PublicID, "ip", ip)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}
