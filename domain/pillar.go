package domain

// Pillar is one of the five topical personas the assistant can adopt.
type Pillar string

const (
	PillarConteudo      Pillar = "conteudo"
	PillarProdutividade Pillar = "produtividade"
	PillarEstudo        Pillar = "estudo"
	PillarNegocios      Pillar = "negocios"
	PillarVida          Pillar = "vida"
)

// GeneralPillar labels a chat reply that was not scoped to any pillar.
const GeneralPillar = "geral"

func Pillars() []Pillar {
	return []Pillar{PillarConteudo, PillarProdutividade, PillarEstudo, PillarNegocios, PillarVida}
}

func (p Pillar) Valid() bool {
	switch p {
	case PillarConteudo, PillarProdutividade, PillarEstudo, PillarNegocios, PillarVida:
		return true
	}
	return false
}

// ParsePillar accepts an exact pillar identifier.
func ParsePillar(s string) (Pillar, bool) {
	p := Pillar(s)
	return p, p.Valid()
}
