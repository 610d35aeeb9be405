package repository

import (
	"github.com/orquestadev/orquesta/internal/model"
	"gorm.io/gorm"
)

type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db}
}

func (r *PersonRepository) FindByIDs(ids []uint) ([]model.Person, error) {
	var persons []model.Person
	err := r.db.Where("id IN ?", ids).Find(&persons).Error
	return persons, err
}

func (r *PersonRepository) FindByID(id uint) (*model.Person, error) {
	var person model.Person
	err := r.db.First(&person, "id = ?", id).Error
	return &person, err
}
