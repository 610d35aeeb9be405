package model

import (
	"gorm.io/datatypes"
)

type Person struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nombre   string `gorm:"index" json:"nombre"`
	Genero   string `gorm:"type:varchar(10)" json:"genero"` // 'M' or 'F'
	EsSiervo bool   `gorm:"default:false" json:"es_siervo"`

	// Role capabilities (flags)
	CanPresident bool `gorm:"default:false" json:"can_president"`
	CanPray      bool `gorm:"default:false" json:"can_pray"`
	CanConduct   bool `gorm:"default:false" json:"can_conduct"`
	CanRead      bool `gorm:"default:false" json:"can_read"`

	Metadata datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`
}

func (p *Person) TableName() string {
	return "persons"
}

// MetaFloat reads a numeric metadata field, tolerating both float64 and
// int-shaped JSON values.
func (p *Person) MetaFloat(key string, def float64) float64 {
	v, ok := p.Metadata[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

func (p *Person) MetaBool(key string, def bool) bool {
	v, ok := p.Metadata[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Skills returns the metadata skill list, empty when absent or malformed.
func (p *Person) Skills() []string {
	raw, ok := p.Metadata["skills"].([]interface{})
	if !ok {
		return nil
	}
	skills := make([]string, 0, len(raw))
	for _, s := range raw {
		if str, ok := s.(string); ok {
			skills = append(skills, str)
		}
	}
	return skills
}

func (p *Person) Available() bool {
	return p.MetaBool("available", true)
}
