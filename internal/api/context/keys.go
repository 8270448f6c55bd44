package context

type Key string

const (
	Claims      Key = "claims"
	CurrentUser Key = "current_user"
	Tenant      Key = "tenant"
	Params      Key = "params"
)
