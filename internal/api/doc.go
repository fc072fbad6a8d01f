// Package api provides the certificate generator REST API.
//
//	@title			Certificate Generator API
//	@version		1.0
//	@description	Certificate generation and delivery service
//	@BasePath		/
package api
