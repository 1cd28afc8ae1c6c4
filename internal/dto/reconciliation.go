package dto

// The reconciliation endpoints keep the field names of the operational
// contract consumed by the dispatch tooling, hence the Portuguese tags.

// ManualReconciliationRequest triggers a run for one team and date, or
// for every active team on that date.
type ManualReconciliationRequest struct {
	EquipeID       string `json:"equipeId"`
	DataReferencia string `json:"dataReferencia"`
	TodasEquipes   bool   `json:"todasEquipes"`
}

// ForcedReconciliationRequest triggers a historical sweep over every
// active team, or one team when equipeId is set. Either an explicit
// range or a lookback in days ending today.
type ForcedReconciliationRequest struct {
	EquipeID      string `json:"equipeId"`
	DataInicio    string `json:"dataInicio"`
	DataFim       string `json:"dataFim"`
	DiasHistorico int    `json:"diasHistorico"`
}

// UnitResult is the outcome of one (team, date) reconciliation unit.
type UnitResult struct {
	EquipeID       string `json:"equipeId"`
	DataReferencia string `json:"dataReferencia"`
	Sucesso        bool   `json:"sucesso"`
	Erro           string `json:"erro,omitempty"`
	Ausencias      int    `json:"ausencias"`
	HorasExtras    int    `json:"horasExtras"`
	Revertidas     int    `json:"revertidas"`
	Ignorada       bool   `json:"ignorada,omitempty"`
}

// BatchResult aggregates a whole run. Success is false when any unit
// failed, even though the HTTP status stays 200.
type BatchResult struct {
	Success            bool         `json:"success"`
	Message            string       `json:"message"`
	EquipesProcessadas int          `json:"equipesProcessadas"`
	DiasProcessados    int          `json:"diasProcessados"`
	Sucessos           int          `json:"sucessos"`
	Erros              int          `json:"erros"`
	Resultados         []UnitResult `json:"resultados"`
}
