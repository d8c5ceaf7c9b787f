package access

type AccessState string

const (
	AccessFull   AccessState = "full"
	AccessLocked AccessState = "locked"
)
