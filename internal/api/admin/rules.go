package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/store"
)

const msgDuplicateRule = "Já existe uma regra para este período."

// ruleFromForm reads a pricing rule; only the fields of its scope are
// required.
func ruleFromForm(r *http.Request) (pricing.Rule, error) {
	scope, err := pricing.ParseScope(strings.TrimSpace(r.FormValue("scope")))
	if err != nil {
		return pricing.Rule{}, apiutil.FieldError{Field: "scope", Reason: "is invalid"}
	}
	price, err := apiutil.ParseAmountField(r.FormValue("price"), "price")
	if err != nil {
		return pricing.Rule{}, err
	}

	if scope == pricing.ScopeDay {
		d, err := apiutil.ParseDateField(r.FormValue("date"), "date")
		if err != nil {
			return pricing.Rule{}, err
		}
		return pricing.DayRule(d, price), nil
	}

	year, err := apiutil.ParsePositiveIntField(r.FormValue("year"), "year")
	if err != nil {
		return pricing.Rule{}, err
	}
	month, err := apiutil.ParsePositiveIntField(r.FormValue("month"), "month")
	if err != nil {
		return pricing.Rule{}, err
	}
	if scope == pricing.ScopeMonth {
		return pricing.MonthRule(year, time.Month(month), price), nil
	}
	week, err := apiutil.ParsePositiveIntField(r.FormValue("week"), "week")
	if err != nil {
		return pricing.Rule{}, err
	}
	return pricing.WeekRule(year, time.Month(month), week, price), nil
}

func ruleFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrDuplicateRule):
		log.Ctx(r.Context()).Debug().Err(err).Msg("Duplicate pricing rule rejected")
		redirectError(w, r, msgDuplicateRule)
	case errors.Is(err, pricing.ErrInvalidRule):
		log.Ctx(r.Context()).Debug().Err(err).Msg("Invalid pricing rule rejected")
		redirectError(w, r, "Preencha os campos da regra corretamente.")
	case errors.Is(err, store.ErrNotFound):
		redirectError(w, r, "Regra não encontrada.")
	default:
		failed(w, r, err, fallback)
	}
}

// HandleCreateRule handles POST /admin/rules.
func HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	rule, err := ruleFromForm(r)
	if err != nil {
		failed(w, r, err, "Preencha os campos da regra corretamente.")
		return
	}
	created, err := deps.Settings.CreateRule(r.Context(), rule)
	if err != nil {
		ruleFailed(w, r, err, "Erro ao criar a regra.")
		return
	}
	log.Ctx(r.Context()).Info().Str("rule_id", created.ID).Str("key", created.Key()).Msg("Pricing rule created")
	redirectNotice(w, r, "Regra criada.")
}

// HandleUpdateRule handles POST /admin/rules/{id}.
func HandleUpdateRule(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if _, ok := deps.Settings.Snapshot().Rule(id); !ok {
		redirectError(w, r, "Regra não encontrada.")
		return
	}
	rule, err := ruleFromForm(r)
	if err != nil {
		failed(w, r, err, "Preencha os campos da regra corretamente.")
		return
	}
	rule.ID = id
	if _, err := deps.Settings.UpdateRule(r.Context(), rule); err != nil {
		ruleFailed(w, r, err, "Erro ao atualizar a regra.")
		return
	}
	log.Ctx(r.Context()).Info().Str("rule_id", id).Msg("Pricing rule updated")
	redirectNotice(w, r, "Regra atualizada.")
}

// HandleDeleteRule handles POST /admin/rules/{id}/delete.
func HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if err := deps.Settings.DeleteRule(r.Context(), id); err != nil {
		ruleFailed(w, r, err, "Erro ao excluir a regra.")
		return
	}
	log.Ctx(r.Context()).Info().Str("rule_id", id).Msg("Pricing rule deleted")
	redirectNotice(w, r, "Regra excluída.")
}
