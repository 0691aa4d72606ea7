package config

const (
	EnvPrefix = "CAMBROOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "CAMBROOS_APP_ENV"
	EnvPort          = "CAMBROOS_APP_PORT"
	EnvAdminEmail    = "CAMBROOS_ADMIN_EMAIL"
	EnvSupportEmail  = "CAMBROOS_SUPPORT_EMAIL"
	EnvSMTPServer    = "CAMBROOS_SMTP_SERVER"
	EnvSMTPPort      = "CAMBROOS_SMTP_PORT"
	EnvSenderEmail   = "CAMBROOS_SENDER_EMAIL"
	EnvSenderPass    = "CAMBROOS_SENDER_PASSWORD"
	EnvRedisURL      = "CAMBROOS_REDIS_URL"
	EnvRelayURL      = "CAMBROOS_RELAY_URL"
	EnvRelayTimeout  = "CAMBROOS_RELAY_TIMEOUT"
	EnvCORSOrigins   = "CAMBROOS_CORS_ALLOWED_ORIGINS"
	EnvRateLimitIP   = "CAMBROOS_QUOTE_RATE_LIMIT_IP_LIMIT"
	EnvRateLimitMail = "CAMBROOS_QUOTE_RATE_LIMIT_EMAIL_LIMIT"

	DefaultAdminEmail = "akkenapally.reddy@gmail.com"
	DefaultBrand      = "Cambroos"

	SendOrderPath = "/api/send-order"
)
