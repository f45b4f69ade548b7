package main

// TODO: rate limit /api/teacher-auth and /api/telegram
func main() {
	startWithDig()
}
