package checkout

// PlanID identifies one of the closed set of membership tiers.
type PlanID string

const (
	PlanAssociado PlanID = "associado"
	PlanEfetivo   PlanID = "efetivo"
	PlanPremium   PlanID = "premium"
)

// Plan describes a membership tier. Prices are monthly, in centavos.
type Plan struct {
	ID          PlanID   `json:"id"`
	Title       string   `json:"title"`
	PriceCents  int      `json:"priceCents"`
	Features    []string `json:"features"`
	Recommended bool     `json:"recommended"`
}

var plans = []Plan{
	{
		ID:         PlanAssociado,
		Title:      "Membro Associado",
		PriceCents: 3990,
		Features: []string{
			"Acesso integral ao conteúdo da plataforma da União Apostólica Cardeal Leme",
			"Catequese mensal voltada para empresários - Doutrina social da Igreja",
			"Aula Profissional Virtual - mensal",
			"Desconto nos encontros mensais presenciais e virtuais do SEC - 20%",
			"Descontos para acompanhantes em todos os eventos presenciais - 20%",
			"Descontos nos eventos anuais SEC/Forum Rio/UACL - 20%",
		},
	},
	{
		ID:         PlanEfetivo,
		Title:      "Membro Efetivo",
		PriceCents: 5990,
		Features: []string{
			"Acesso integral ao conteúdo da plataforma da União Apostólica Cardeal Leme",
			"Catequese mensal voltada para empresários - Doutrina social da Igreja",
			"Aula Profissional Virtual - mensal",
			"Desconto nos encontros mensais presenciais e virtuais do SEC - 35%",
			"Descontos para acompanhantes em todos os eventos presenciais - 35%",
			"Descontos nos eventos anuais SEC/Forum Rio/UACL - 35%",
			"Realização de 3 cursos exclusivos com imersão presencial e virtual",
		},
		Recommended: true,
	},
	{
		ID:         PlanPremium,
		Title:      "Membro Premium",
		PriceCents: 8990,
		Features: []string{
			"Acesso integral ao conteúdo da plataforma da União Apostólica Cardeal Leme",
			"Catequese mensal voltada para empresários - Doutrina social da Igreja",
			"Aula Profissional Virtual - mensal",
			"Desconto nos encontros mensais presenciais e virtuais do SEC - 50%",
			"Descontos para acompanhantes em todos os eventos presenciais - 50%",
			"Descontos nos eventos anuais SEC/Forum Rio/UACL - 50%",
			"Realização de 6 cursos exclusivos com imersão presencial e virtual",
		},
	},
}

// Plans returns the full membership catalog.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks a plan up; ok is false for identifiers outside the
// closed set.
func PlanByID(id PlanID) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
