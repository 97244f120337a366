package tier

type Tier struct {
	ID                  uint64
	Name                string
	AllowOriginalAccess bool
	AllowExpiringLinks  bool
	ExpirationSeconds   *int32
	Heights             []int32
}
