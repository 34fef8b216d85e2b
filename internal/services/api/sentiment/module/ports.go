package module

import (
	sentdom "sentimeter/internal/services/api/sentiment/domain"
	batchdom "sentimeter/internal/services/batch/domain"
)

// Ports holds the cross module dependencies injected into sentiment:
// the batch submit and query ports plus the loaded scorer
type Ports struct {
	Submit batchdom.SubmitPort
	Jobs   batchdom.QueryPort
	Scorer sentdom.Scorer
}
