package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Auth   Auth   `envPrefix:"AUTH_"`
	Stripe Stripe `envPrefix:"STRIPE_"`
	Gelato Gelato `envPrefix:"GELATO_"`
	Mail   Mail   `envPrefix:"MAIL_"`
}

type Stripe struct {
	SecretKey string `env:"SECRET_KEY"`

	// One webhook secret per integration; signatures never validate across
	// endpoints.
	OrderWebhookSecret        string `env:"ORDER_WEBHOOK_SECRET"`
	CustomOrderWebhookSecret  string `env:"CUSTOM_ORDER_WEBHOOK_SECRET"`
	SubscriptionWebhookSecret string `env:"SUBSCRIPTION_WEBHOOK_SECRET"`
	ProviderWebhookSecret     string `env:"PROVIDER_WEBHOOK_SECRET"`
}

type Gelato struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://order.gelatoapis.com"`
	APIKey     string `env:"API_KEY"`
}

type Mail struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromAddress    string `env:"FROM_ADDRESS" envDefault:"no-reply@partyhub.example"`
	FromName       string `env:"FROM_NAME" envDefault:"PartyHub"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
