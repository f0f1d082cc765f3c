// Package config loads client configuration from YAML files, .env files,
// and environment variables using Viper.
//
// # Usage
//
//	var cfg restclient.Config
//	err := config.LoadConfig("billing-api", &cfg, config.WithEnvPrefix("BILLING"))
//
// Files are searched in ./config/<name>.yml, ./config/config.yml and
// ./<name>.yml unless WithConfigFile names one explicitly. Environment
// variables override file values: with prefix BILLING, BILLING_BASE_URL
// sets base_url and BILLING_HEADERS_ACCEPT sets headers.accept.
package config
