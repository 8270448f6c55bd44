package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantID(t *testing.T) {
	cases := map[string]string{
		"Acme Inc":        "acme-inc",
		"acme inc":        "acme-inc",
		"  WorkHive  ":    "workhive",
		"Crème Brûlée":    "creme-brulee",
		"A/B Testing Co.": "a-b-testing-co",
	}
	for in, want := range cases {
		assert.Equal(t, want, TenantID(in), "input %q", in)
	}
}

func TestTenantIDDeterministic(t *testing.T) {
	first := TenantID("Globex Corporation")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, TenantID("Globex Corporation"))
	}
}
