package config

import "os"

func IsDebug() bool {
	return os.Getenv("SKYLINE_DEBUG") == "1"
}
