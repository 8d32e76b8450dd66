package cmd

import (
	"github.com/spf13/pflag"

	"tessdl/pkg/models"
)

// repositoryValue is a pflag.Value restricted to the known repositories
type repositoryValue models.Repository

var _ pflag.Value = (*repositoryValue)(nil)

func newRepositoryValue(def models.Repository) *repositoryValue {
	v := repositoryValue(def)
	return &v
}

func (r *repositoryValue) String() string {
	return string(*r)
}

func (r *repositoryValue) Set(s string) error {
	repo, err := models.ParseRepository(s)
	if err != nil {
		return err
	}
	*r = repositoryValue(repo)
	return nil
}

func (r *repositoryValue) Type() string {
	return "repository"
}
