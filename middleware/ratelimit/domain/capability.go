package domain

// Capability é o conjunto fechado de tools sujeitas a cota própria.
type Capability uint8

const (
	CapabilityGlobal  Capability = 0
	CapabilityChat    Capability = 1
	CapabilityContent Capability = 2
	CapabilityCode    Capability = 3
	CapabilityImage   Capability = 4
	CapabilityVoice   Capability = 5
	CapabilityResume  Capability = 6
	CapabilityEmail   Capability = 7
	CapabilityVideo   Capability = 8
	CapabilitySEO     Capability = 9
	CapabilityBot     Capability = 10

	// CapabilityError é usada só na contagem de erros que leva a ban.
	CapabilityError Capability = 255
)

var capabilityNames = map[string]Capability{
	"chat":    CapabilityChat,
	"content": CapabilityContent,
	"code":    CapabilityCode,
	"image":   CapabilityImage,
	"voice":   CapabilityVoice,
	"resume":  CapabilityResume,
	"email":   CapabilityEmail,
	"video":   CapabilityVideo,
	"seo":     CapabilitySEO,
	"bot":     CapabilityBot,
}

// CapabilityOf traduz o nome livre da tool.
//
// Nomes desconhecidos caem em CapabilityGlobal, o mesmo id da cota global.
// Ou seja, uma tool desconhecida divide as cotas de tool com as outras
// desconhecidas do mesmo cliente.
func CapabilityOf(name string) Capability {
	if c, ok := capabilityNames[name]; ok {
		return c
	}
	return CapabilityGlobal
}

func (c Capability) String() string {
	switch c {
	case CapabilityGlobal:
		return "global"
	case CapabilityError:
		return "error"
	}
	for name, v := range capabilityNames {
		if v == c {
			return name
		}
	}
	return "unknown"
}
