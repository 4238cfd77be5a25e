package profile

// Seed profile ids.
const (
	SeedREST         = "rest-default"
	SeedGraphQL      = "graphql-default"
	SeedSaaS         = "saas-multi-tenant"
	SeedMicroservice = "microservice-standard"
	SeedGRPC         = "grpc-gateway"
	SeedCustom       = "custom-default"
)

// SeedProfiles returns the built-in profile definitions. The catalog loads
// these once at initialization; they are data, not behavior, so changing a
// default is an edit here rather than code elsewhere.
func SeedProfiles() []*GradingProfile {
	return []*GradingProfile{
		{
			ID:   SeedREST,
			Name: "REST Default",
			Type: TypeREST,
			Prerequisites: Prerequisites{
				RequireAuth:  true,
				RequireAPIID: true,
			},
			Rules: []Rule{
				{RuleID: "OAS-VERSION", Weight: 8, Category: RuleRequired},
				{RuleID: "VER-SEMVER", Weight: 3, Category: RuleOptional},
				{RuleID: "DOC-CONTACT", Weight: 3, Category: RuleOptional},
				{RuleID: "PATH-PREFIX", Weight: 10, Category: RuleRequired},
				{RuleID: "PAG-FORBIDDEN", Weight: 8, Category: RuleRequired},
				{RuleID: "PAG-KEYSET", Weight: 7, Category: RuleRequired},
				{RuleID: "ERR-PROBLEM", Weight: 10, Category: RuleRequired},
				{RuleID: "ERR-WWW-AUTH", Weight: 4, Category: RuleRequired},
				{RuleID: "ENV-SHAPE", Weight: 5, Category: RuleRequired},
				{RuleID: "RATE-HEADERS", Weight: 3, Category: RuleOptional},
				{RuleID: "TECH-FORBIDDEN", Weight: 6, Category: RuleRequired},
			},
			PriorityConfig: map[string]float64{
				"security":      90,
				"consistency":   85,
				"documentation": 70,
				"performance":   60,
			},
		},
		{
			ID:   SeedGraphQL,
			Name: "GraphQL Gateway",
			Type: TypeGraphQL,
			Prerequisites: Prerequisites{
				RequireAuth: true,
			},
			Rules: []Rule{
				{RuleID: "OAS-VERSION", Weight: 8, Category: RuleRequired},
				{RuleID: "DOC-CONTACT", Weight: 3, Category: RuleOptional},
				{RuleID: "ERR-PROBLEM", Weight: 10, Category: RuleRequired},
				{RuleID: "ERR-WWW-AUTH", Weight: 4, Category: RuleRequired},
				{RuleID: "RATE-HEADERS", Weight: 5, Category: RuleRequired},
				{RuleID: "TECH-FORBIDDEN", Weight: 6, Category: RuleRequired},
				// Resource-path conventions do not apply to a single-endpoint surface.
				{RuleID: "PAG-KEYSET", Weight: 1, Category: RuleDisabled},
				{RuleID: "ENV-SHAPE", Weight: 1, Category: RuleDisabled},
			},
			PriorityConfig: map[string]float64{
				"security":    95,
				"performance": 85,
				"consistency": 60,
			},
		},
		{
			ID:   SeedSaaS,
			Name: "Multi-Tenant SaaS",
			Type: TypeSaaS,
			Prerequisites: Prerequisites{
				RequireMultiTenantHeaders: true,
				RequireAuth:               true,
				RequireAPIID:              true,
			},
			Rules: []Rule{
				{RuleID: "OAS-VERSION", Weight: 8, Category: RuleRequired},
				{RuleID: "SEC-ORG-HDR", Weight: 12, Category: RuleRequired},
				{RuleID: "SEC-BRANCH-HDR", Weight: 12, Category: RuleRequired},
				{RuleID: "PATH-PREFIX", Weight: 10, Category: RuleRequired},
				{RuleID: "PAG-FORBIDDEN", Weight: 8, Category: RuleRequired},
				{RuleID: "PAG-KEYSET", Weight: 7, Category: RuleRequired},
				{RuleID: "ERR-PROBLEM", Weight: 10, Category: RuleRequired},
				{RuleID: "ERR-WWW-AUTH", Weight: 4, Category: RuleRequired},
				{RuleID: "ERR-RETRY-AFTER", Weight: 2, Category: RuleOptional},
				{RuleID: "ENV-SHAPE", Weight: 5, Category: RuleRequired},
				{RuleID: "RATE-HEADERS", Weight: 5, Category: RuleRequired},
				{RuleID: "TECH-FORBIDDEN", Weight: 6, Category: RuleRequired},
			},
			PriorityConfig: map[string]float64{
				"security":      100,
				"compliance":    90,
				"consistency":   80,
				"scalability":   75,
				"documentation": 60,
			},
		},
		{
			ID:   SeedMicroservice,
			Name: "Internal Microservice",
			Type: TypeMicroservice,
			Prerequisites: Prerequisites{
				RequireAPIID: true,
				Custom:       []string{"PREREQ-HEALTH-ENDPOINT"},
			},
			Rules: []Rule{
				{RuleID: "OAS-VERSION", Weight: 8, Category: RuleRequired},
				{RuleID: "VER-SEMVER", Weight: 3, Category: RuleRequired},
				{RuleID: "PATH-PREFIX", Weight: 6, Category: RuleOptional},
				{RuleID: "ERR-PROBLEM", Weight: 10, Category: RuleRequired},
				{RuleID: "ASYNC-LOCATION", Weight: 4, Category: RuleRequired},
				{RuleID: "ASYNC-RETRY", Weight: 2, Category: RuleOptional},
				{RuleID: "ENV-SHAPE", Weight: 5, Category: RuleOptional},
				{RuleID: "TECH-FORBIDDEN", Weight: 6, Category: RuleRequired},
			},
			PriorityConfig: map[string]float64{
				"resilience":  90,
				"security":    75,
				"consistency": 70,
				"performance": 70,
			},
		},
		{
			ID:   SeedGRPC,
			Name: "gRPC-Style Gateway",
			Type: TypeGRPC,
			Prerequisites: Prerequisites{
				RequireAuth: true,
			},
			Rules: []Rule{
				{RuleID: "OAS-VERSION", Weight: 8, Category: RuleRequired},
				{RuleID: "VER-SEMVER", Weight: 3, Category: RuleOptional},
				{RuleID: "ERR-PROBLEM", Weight: 10, Category: RuleRequired},
				{RuleID: "TECH-FORBIDDEN", Weight: 6, Category: RuleRequired},
				{RuleID: "PAG-KEYSET", Weight: 1, Category: RuleDisabled},
				{RuleID: "PATH-PREFIX", Weight: 1, Category: RuleDisabled},
			},
			PriorityConfig: map[string]float64{
				"performance": 95,
				"security":    80,
				"resilience":  75,
			},
		},
		{
			ID:   SeedCustom,
			Name: "Custom",
			Type: TypeCustom,
			Rules: []Rule{
				{RuleID: "OAS-VERSION", Weight: 8, Category: RuleRequired},
				{RuleID: "VER-SEMVER", Weight: 3, Category: RuleOptional},
				{RuleID: "DOC-CONTACT", Weight: 3, Category: RuleOptional},
				{RuleID: "ERR-PROBLEM", Weight: 10, Category: RuleOptional},
				{RuleID: "ENV-SHAPE", Weight: 5, Category: RuleOptional},
				{RuleID: "TECH-FORBIDDEN", Weight: 6, Category: RuleRequired},
			},
			PriorityConfig: map[string]float64{
				"security":      80,
				"consistency":   70,
				"documentation": 70,
			},
		},
	}
}
