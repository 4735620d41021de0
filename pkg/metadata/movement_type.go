package metadata

import (
	"fmt"
	"strings"

	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"
)

type MovementType string

const (
	MovementReceipt MovementType = models.MovementTypeReceipt
	MovementIssue   MovementType = models.MovementTypeIssue
)

func (m MovementType) IsValid() bool {
	switch m {
	case MovementReceipt, MovementIssue:
		return true
	default:
		return false
	}
}

// NewMovementType normalizes user input ("entrada", " SALIDA ") to the API's spelling.
func NewMovementType(value string) (MovementType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized != "" {
		normalized = strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	movementType := MovementType(normalized)
	if !movementType.IsValid() {
		return movementType, fmt.Errorf(
			"value not valid, only valid values are: %s, %s", MovementReceipt, MovementIssue,
		)
	}

	return movementType, nil
}

func (m MovementType) String() string {
	return string(m)
}
