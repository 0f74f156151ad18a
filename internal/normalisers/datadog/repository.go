package datadog

import (
	"strings"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// PreferredRepositoryProvider is picked ahead of any other provider.
const PreferredRepositoryProvider = "github"

// repositoryStrategy picks a repository from the list, if any.
type repositoryStrategy func(repos []domain.RawRepository) (*domain.RawRepository, bool)

var repositoryStrategies = []repositoryStrategy{
	firstRepositoryFrom(PreferredRepositoryProvider),
	firstRepository,
}

// SelectRepository returns the repository used for the source location.
func SelectRepository(repos []domain.RawRepository) *domain.RawRepository {
	for _, strategy := range repositoryStrategies {
		if repo, ok := strategy(repos); ok {
			return repo
		}
	}
	return nil
}

func firstRepositoryFrom(provider string) repositoryStrategy {
	return func(repos []domain.RawRepository) (*domain.RawRepository, bool) {
		for i := range repos {
			if strings.EqualFold(repos[i].Provider, provider) {
				return &repos[i], true
			}
		}
		return nil, false
	}
}

func firstRepository(repos []domain.RawRepository) (*domain.RawRepository, bool) {
	if len(repos) == 0 {
		return nil, false
	}
	return &repos[0], true
}
