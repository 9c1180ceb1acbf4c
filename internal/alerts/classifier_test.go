package alerts

import (
	"testing"

	"github.com/mallardduck/sentry-alert-tool/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestProductionEnvironmentsExactMatch(t *testing.T) {
	input := util.SetOf("production", "PROD", "staging", "Production", "ECS_PROD", "bulk_upload_prod")

	matched := ProductionEnvironments(input, nil)

	assert.ElementsMatch(t,
		[]string{"production", "PROD", "Production", "ECS_PROD", "bulk_upload_prod"},
		matched.Values(),
	)
	assert.False(t, matched.Contains("staging"))
}

func TestProductionEnvironmentsNoSubstringMatching(t *testing.T) {
	// Names that merely contain "prod" must not classify; the allow-list is
	// exact on purpose.
	input := util.SetOf("preprod", "prod-staging", "productionish", "not-production")

	matched := ProductionEnvironments(input, nil)

	assert.True(t, matched.IsEmpty())
}

func TestProductionEnvironmentsEmptyInput(t *testing.T) {
	assert.True(t, ProductionEnvironments(util.NewSet[string](), nil).IsEmpty())
}

func TestProductionEnvironmentsKnownTypo(t *testing.T) {
	matched := ProductionEnvironments(util.SetOf("prodcution"), nil)
	assert.True(t, matched.Contains("prodcution"))
}

func TestProductionEnvironmentsWorkerVariants(t *testing.T) {
	input := util.SetOf("production-worker", "production_worker", "prod-worker", "staging-worker")

	matched := ProductionEnvironments(input, nil)

	assert.ElementsMatch(t,
		[]string{"production-worker", "production_worker", "prod-worker"},
		matched.Values(),
	)
}

func TestProductionEnvironmentsExtraAllowList(t *testing.T) {
	input := util.SetOf("live", "staging")

	assert.True(t, ProductionEnvironments(input, nil).IsEmpty())

	matched := ProductionEnvironments(input, []string{"live"})
	assert.ElementsMatch(t, []string{"live"}, matched.Values())
	assert.False(t, matched.Contains("staging"))
}
