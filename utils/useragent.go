package utils

import (
	"runtime"
)

const (
	packageID      = "mslogs_sdk_go/"
	packageVersion = "0.1.0"
)

func BuildUserAgent() string {
	return packageID + packageVersion + ";" + runtime.Version() + ";" + runtime.GOOS + ";arch " + runtime.GOARCH
}
