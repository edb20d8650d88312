package domain

import (
	"net/netip"
	"strings"
)

// ClientID é a identidade de 32 bits de um cliente, derivada do endereço IPv4.
type ClientID uint32

// UnknownClient agrupa tudo o que não é IPv4 válido (inclusive IPv6).
const UnknownClient ClientID = 0

// ParseClientID converte um IPv4 em notação decimal pontuada.
// Entradas inválidas e IPv6 (inclusive ::ffff:a.b.c.d) viram UnknownClient.
func ParseClientID(ip string) ClientID {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil || !addr.Is4() {
		return UnknownClient
	}
	b := addr.As4()
	return ClientID(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func (id ClientID) String() string {
	return netip.AddrFrom4([4]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}).String()
}
