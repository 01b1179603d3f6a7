package cmd

type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	RedisURL            string
	JWTSecret           string
	TrackingInterval    string
	TrackingMinMovement string
}
