package alerts

import (
	"github.com/mallardduck/sentry-alert-tool/internal/util"
)

// productionEnvNames is the exact-match allow-list of environment names that
// count as production-like. Matching is deliberately exact: substring or
// fuzzy matching would eventually classify a staging environment as
// production and page someone at 3am. New naming conventions get added here
// or via the extra-production-envs configuration, never inferred.
var productionEnvNames = util.SetOf(
	// canonical names and casing variants teams actually use
	"production",
	"Production",
	"PRODUCTION",
	"prod",
	"PROD",
	// worker / suffix variants
	"production-worker",
	"production_worker",
	"prod-worker",
	"ECS_PROD",
	"ecs-prod",
	"bulk_upload_prod",
	// known typo that shipped to a real project config
	"prodcution",
)

// ProductionEnvironments returns the subset of envs considered
// production-like. Unknown names are excluded; no match yields an empty set.
// extra holds operator-configured additions to the allow-list.
func ProductionEnvironments(envs util.Set[string], extra []string) util.Set[string] {
	matched := util.NewSet[string]()
	for env := range envs {
		if productionEnvNames.Contains(env) {
			_ = matched.Add(env)
			continue
		}
		for _, name := range extra {
			if env == name {
				_ = matched.Add(env)
				break
			}
		}
	}
	return matched
}
