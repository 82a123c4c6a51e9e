package game

// DeliveryResult is the outcome of a single-recipient send.
type DeliveryResult int

const (
	DeliveryOk DeliveryResult = iota
	DeliveryNotConnected
	DeliveryNotAvailable
	DeliveryIgnored
)

func (d DeliveryResult) String() string {
	switch d {
	case DeliveryOk:
		return "ok"
	case DeliveryNotConnected:
		return "not connected"
	case DeliveryNotAvailable:
		return "not available"
	case DeliveryIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Messenger delivers text to players. Implementations resolve recipients
// from the World and are called with the world lock held.
type Messenger interface {
	Send(id CharacterId, text string) DeliveryResult
	SendToRoom(loc Location, exclude []CharacterId, text string)
	SendToArea(loc Location, exclude CharacterId, text string)
	SendToAll(text string)
	PlaySound(id CharacterId, channel, sound string)
}

// CharacterSaver persists a character after a state change that must
// survive a crash.
type CharacterSaver interface {
	SaveCharacter(c *Character) error
}
