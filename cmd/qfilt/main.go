// cmd/qfilt/main.go
package main

import (
	"qfilt/internal/app"
	"qfilt/internal/appshell"
)

func main() { appshell.Main(app.Run) }
