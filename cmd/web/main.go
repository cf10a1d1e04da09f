package main

import "diabits_backend/internal/app"

func main() {
	app.Run()
}
