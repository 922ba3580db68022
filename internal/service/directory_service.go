package service

import (
	"context"

	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
)

// DirectoryService — каталожные выборки для внешнего интерфейса записи:
// клиент выбирает юриста по специализации перед подбором слота.
type DirectoryService struct {
	lawyers repository.LawyerRepository
}

func NewDirectoryService(lawyers repository.LawyerRepository) *DirectoryService {
	return &DirectoryService{lawyers: lawyers}
}

// ListLawyers возвращает юристов, при непустой specialty — только заданной
// специализации.
func (s *DirectoryService) ListLawyers(ctx context.Context, specialty string) ([]model.Lawyer, error) {
	var filters []repository.Filter
	if specialty != "" {
		filters = append(filters, repository.BySpecialty{Specialty: specialty})
	}

	lawyers, err := s.lawyers.List(ctx, filters...)
	if err != nil {
		return nil, storeErr("list lawyers", err)
	}
	return lawyers, nil
}
