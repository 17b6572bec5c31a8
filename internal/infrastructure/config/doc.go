// Package config loads and validates the Stagelight configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides on top, loaded once at startup:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.DMX.UniverseCount)
//
// Secrets (broker passwords, the JWT secret, the InfluxDB token)
// belong in environment variables, not the file. With auth enabled,
// validation rejects a missing or short JWT secret at startup.
package config
