package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	limiters := newLoginLimiters()

	// Session & auth. Credential submissions are rate limited per IP;
	// login and signup surfaces are kept away from logged-in members.
	s.RegisterRouteFunc("GET "+RouteAPISession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware(s.RequireVisitor(), s.RateLimitMiddleware(limiters))...))
	s.RegisterRouteFunc("POST "+RouteAuthSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware(s.RequireVisitor(), s.RateLimitMiddleware(limiters))...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Membership checkout (public; payment success lands in the member area)
	s.RegisterRouteFunc("GET "+RouteCheckoutPlans, ChainMiddleware(s.CheckoutPlansHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCheckoutState, ChainMiddleware(s.CheckoutStateHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCheckoutPlan, ChainMiddleware(s.CheckoutSelectPlanHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCheckoutPersonal, ChainMiddleware(s.CheckoutPersonalHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCheckoutMethod, ChainMiddleware(s.CheckoutMethodHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCheckoutCard, ChainMiddleware(s.CheckoutCardHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCheckoutNext, ChainMiddleware(s.CheckoutNextHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCheckoutBack, ChainMiddleware(s.CheckoutBackHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCheckoutSubmit, ChainMiddleware(s.CheckoutSubmitHandler(), s.APIMiddleware()...))

	// Member area (authenticated sessions only)
	s.RegisterRouteFunc("GET "+RouteMemberDashboard, ChainMiddleware(s.DashboardHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("GET "+RouteAPINotifications, ChainMiddleware(s.NotificationsHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("PATCH "+RouteAPINotificationRead, ChainMiddleware(s.NotificationReadHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("PATCH "+RouteAPINotificationsReadAll, ChainMiddleware(s.NotificationsReadAllHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("GET "+RouteAPICourses, ChainMiddleware(s.CoursesHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("POST "+RouteAPICourseEnroll, ChainMiddleware(s.CourseEnrollHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("GET "+RouteAPIEvents, ChainMiddleware(s.EventsHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("POST "+RouteAPIEventRegister, ChainMiddleware(s.EventRegisterHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("PATCH "+RouteAPIProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("POST "+RouteAPIChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("GET "+RouteAPISubscription, ChainMiddleware(s.SubscriptionHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("POST "+RouteAPISubscription, ChainMiddleware(s.SubscriptionHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("POST "+RouteAPICancelSubscription, ChainMiddleware(s.CancelSubscriptionHandler(), s.APIMiddleware(s.RequireMember())...))
	s.RegisterRouteFunc("DELETE "+RouteAPIDeleteAccount, ChainMiddleware(s.DeleteAccountHandler(), s.APIMiddleware(s.RequireMember())...))

	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
