package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"
	RouteAuthSignup = "/auth/signup"

	// Session
	RouteAPISession = "/api/session"

	// Checkout Routes
	RouteCheckoutState    = "/api/checkout"
	RouteCheckoutPlans    = "/api/checkout/plans"
	RouteCheckoutPlan     = "/api/checkout/plan"
	RouteCheckoutPersonal = "/api/checkout/personal"
	RouteCheckoutMethod   = "/api/checkout/payment-method"
	RouteCheckoutCard     = "/api/checkout/card"
	RouteCheckoutNext     = "/api/checkout/next"
	RouteCheckoutBack     = "/api/checkout/back"
	RouteCheckoutSubmit   = "/api/checkout/submit"
	RoutePaymentSuccess   = "/pagamento/sucesso"

	// Member Routes (guarded)
	RouteMemberDashboard         = "/membro/dashboard"
	RouteAPINotifications        = "/api/member/notifications"
	RouteAPINotificationRead     = "/api/member/notifications/{id}/read"
	RouteAPINotificationsReadAll = "/api/member/notifications/read-all"
	RouteAPICourses              = "/api/member/courses"
	RouteAPICourseEnroll         = "/api/member/courses/{id}/enroll"
	RouteAPIEvents               = "/api/member/events"
	RouteAPIEventRegister        = "/api/member/events/{id}/register"
	RouteAPIProfile              = "/api/member/profile"
	RouteAPIChangePassword       = "/api/member/change-password"
	RouteAPISubscription         = "/api/member/subscription"
	RouteAPICancelSubscription   = "/api/member/cancel-subscription"
	RouteAPIDeleteAccount        = "/api/member/account"

	// Observability
	RouteMetrics = "/metrics"
)
