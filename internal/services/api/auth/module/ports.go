package module

import authdom "sentimeter/internal/services/api/auth/domain"

// Ports holds the ports exposed by the auth module for cross-module usage
type Ports struct {
	Auth authdom.ServicePort
}
