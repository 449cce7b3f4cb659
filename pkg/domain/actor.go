package domain

import "fmt"

// ActorKind identifies which kind of account a session belongs to.
type ActorKind string

const (
	ActorUser     ActorKind = "user"
	ActorMerchant ActorKind = "merchant"
)

// ParseActorKind converts a stored marker into an ActorKind.
func ParseActorKind(s string) (ActorKind, error) {
	switch ActorKind(s) {
	case ActorUser:
		return ActorUser, nil
	case ActorMerchant:
		return ActorMerchant, nil
	default:
		return "", fmt.Errorf("unknown actor kind %q", s)
	}
}

func (k ActorKind) String() string {
	return string(k)
}
