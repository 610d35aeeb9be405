package model

import (
	"time"

	"gorm.io/datatypes"
)

// Known Resultado values. Rechazada exists historically but carries no
// training label.
const (
	ResultadoAceptada  = "aceptada"
	ResultadoRechazada = "rechazada"
	ResultadoCorrigida = "corrigida"
)

type AssignmentHistory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Semana    time.Time      `gorm:"type:date;index" json:"semana"`
	Role      string         `gorm:"index" json:"role"`
	PersonID  uint           `json:"person_id"`
	Resultado string         `gorm:"type:varchar(20)" json:"resultado"`
	Feedback  datatypes.JSON `json:"feedback"`
	CreatedAt time.Time      `json:"created_at"`
}

func (h *AssignmentHistory) TableName() string {
	return "assignment_history"
}
