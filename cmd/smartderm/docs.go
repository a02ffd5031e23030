package main

// General API documentation for swaggo. Run `swag init -g cmd/smartderm/docs.go` to regenerate docs.
//
// @title           smartderm API
// @version         1.0
// @description     Skin condition analysis, food advice, cause prediction and dermatologist maps backed by GenAI models.
//
// @contact.name   smartderm maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
