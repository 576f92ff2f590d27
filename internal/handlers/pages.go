package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page renders a minimal placeholder; the interesting part of every page
// request is the gatekeeper decision that ran before it.
func Page(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<!doctype html><title>%s</title><h1>%s</h1>", title, title)
	}
}

func (h HandlerSet) RegisterPages(r gin.IRoutes) {
	r.GET("/", Page("StageLink"))
	r.GET("/login", Page("Sign in"))
	r.GET("/register", Page("Stage manager registration"))
	r.GET("/unauthorized", Page("Unauthorized"))

	r.GET("/super-admin", Page("Super admin dashboard"))
	r.GET("/stage-manager", Page("Stage manager dashboard"))
	r.GET("/dj", Page("DJ dashboard"))

	r.GET("/account-pending", Page("Account pending approval"))
	r.GET("/account-suspended", Page("Account suspended"))
	r.GET("/account-deactivated", Page("Account deactivated"))

	r.GET("/profile", Page("Profile"))
	r.GET("/settings", Page("Settings"))
	r.GET("/events", Page("Events"))
}
