package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"sitepass/internal/entity"
)

// ApprovalTokenFor derives the magic-link token for an employee from stable
// attributes only. It is deterministic, so the server can verify a link by
// recomputing it against the live roster instead of keeping a token table.
func ApprovalTokenFor(employee entity.Employee) string {
	material := employee.ID.String() + "|" + employee.EmployeeID + "|" + NormalizeEmail(employee.Email)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}
