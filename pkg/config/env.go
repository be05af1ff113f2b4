package config

// EnvPrefix namespaces every PlantSwap environment variable.
const EnvPrefix = "PLANTSWAP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PLANTSWAP_DB_DSN"
	EnvDBHost = "PLANTSWAP_DB_HOST"
	EnvDBUser = "PLANTSWAP_DB_USER"
	EnvDBName = "PLANTSWAP_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
