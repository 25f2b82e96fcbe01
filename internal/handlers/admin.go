package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/services"
)

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func GetDashboardStats(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/stats"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := adminService.Stats(ctx)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"stats": stats})
	}
}

func GetAllUsers(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		users, err := adminService.Users(ctx)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"users": users})
	}
}

func GetAllOrders(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		orders, err := adminService.Orders(ctx)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"orders": orders})
	}
}

func GetAllProducts(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/products"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		products, err := adminService.Products(ctx)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"products": products})
	}
}

func UpdateUserRole(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/users/:id/role"
		defer handlePanic(c, route)

		userID, ok := objectIDParam(c, route, "id", "User not found")
		if !ok {
			return
		}

		var req updateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := adminService.UpdateUserRole(ctx, userID, req.Role)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] user %s role set to %s", route, user.ID.Hex(), user.Role)
		respond(c, http.StatusOK, gin.H{"user": user})
	}
}

func DeleteUser(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/users/:id"
		defer handlePanic(c, route)

		userID, ok := objectIDParam(c, route, "id", "User not found")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := adminService.DeleteUser(ctx, userID); err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] deleted user %s with orders", route, userID.Hex())
		respond(c, http.StatusOK, gin.H{"message": "User and all their orders have been permanently deleted"})
	}
}
