package persistence_test

import (
	"testing"

	"github.com/iota-uz/recruiting-crm/modules/core"
	"github.com/iota-uz/recruiting-crm/pkg/itf"
)

func setupTest(t *testing.T) *itf.TestEnvironment {
	t.Helper()
	return itf.NewTestContext().
		WithModules(core.NewModule()).
		Build(t)
}
