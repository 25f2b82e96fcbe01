package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/services"
)

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2"`
	LastName  string `json:"lastName" binding:"required,min=2"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func Register(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		session, err := authService.Register(ctx, services.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] registered user %s", route, session.User.ID)
		respond(c, http.StatusCreated, gin.H{"token": session.Token, "user": session.User})
	}
}

func Login(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		session, err := authService.Login(ctx, req.Email, req.Password)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"token": session.Token, "user": session.User})
	}
}

func GetMe(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := authService.Me(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"user": user})
	}
}

func UpdateProfile(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /auth/update-profile"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := authService.UpdateProfile(ctx, userID, services.ProfileUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"user": user})
	}
}

func ChangePassword(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /auth/change-password"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := authService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

func DeleteAccount(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /auth/delete-account"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := authService.DeleteAccount(ctx, userID); err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] deleted account %s", route, userID.Hex())
		respond(c, http.StatusOK, gin.H{"message": "Account deleted successfully"})
	}
}
