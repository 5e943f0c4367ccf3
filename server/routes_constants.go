package server

import "github.com/jrsteele09/go-auth-client/internal/config"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login, Signup & Logout
	RouteAuthLogin  = config.DefaultLoginPath
	RouteAuthSignup = config.DefaultSignupPath
	RouteAuthLogout = config.DefaultLogoutPath

	// Auth Routes - Password Management
	RouteForgotPassword = config.DefaultForgotPasswordPath
	RouteResetPassword  = config.DefaultResetPasswordPath

	// Auth Routes - Tokens
	RouteAuthRefresh = config.DefaultRefreshPath
	RouteAuthMe      = config.DefaultMePath

	RouteHealth = "/healthz"
)
