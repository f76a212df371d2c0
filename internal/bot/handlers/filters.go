package handlers

import (
	"context"
	"strconv"
	"strings"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/bot/utils"
	"godev-candidate-bot/internal/models"
	"godev-candidate-bot/internal/store"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Command names of each filter type
var filterArgs = map[string]string{
	"busca":       models.FilterTypeSearch,
	"contrato":    models.FilterTypeEmploymentType,
	"modelo":      models.FilterTypeWorkModel,
	"local":       models.FilterTypeLocation,
	"salario_min": models.FilterTypeMinSalary,
	"salario_max": models.FilterTypeMaxSalary,
	"empresa":     models.FilterTypeCompany,
}

// /filter, /filter limpar, /filter <tipo> [valor]
func HandleFilters(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		userID := c.Sender().ID

		var payload string
		if c.Message() != nil {
			payload = strings.TrimSpace(c.Message().Payload)
		}
		arg, value, _ := strings.Cut(payload, " ")
		arg = strings.ToLower(arg)
		value = strings.TrimSpace(value)

		dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		switch arg {
		case "":
			return c.Send(utils.FormatFilters(FiltersToMap(ws.Jobs.Filters())), tele.ModeMarkdownV2)
		case "limpar":
			ws.Jobs.ResetFilters()
			if err := ctx.Store.ClearUserFilters(dbCtx, userID); err != nil {
				ctx.Logger.Error("failed to clear filters", zap.Int64("user_id", userID), zap.Error(err))
				return c.Send("😔 Erro ao limpar filtros")
			}
			return c.Send("✅ Filtros removidos.")
		}

		filterType, ok := filterArgs[arg]
		if !ok {
			return c.Send(utils.FormatFilters(FiltersToMap(ws.Jobs.Filters())), tele.ModeMarkdownV2)
		}

		// no value removes the filter
		if value == "" {
			ws.Jobs.SetFilters(func(f *store.JobsFilters) {
				setFilter(f, filterType, "")
			})
			if err := ctx.Store.SaveFilters(dbCtx, userID, FiltersToMap(ws.Jobs.Filters())); err != nil {
				ctx.Logger.Error("failed to save filters", zap.Int64("user_id", userID), zap.Error(err))
				return c.Send("😔 Erro ao salvar filtros")
			}
			return c.Send(utils.FormatFilters(FiltersToMap(ws.Jobs.Filters())), tele.ModeMarkdownV2)
		}

		normalized, ok := normalizeFilterValue(filterType, value)
		if !ok {
			return c.Send("❌ Valor inválido para " + arg + ".")
		}

		ws.Jobs.SetFilters(func(f *store.JobsFilters) {
			setFilter(f, filterType, normalized)
		})

		filter := &models.UserFilter{
			UserID:      userID,
			FilterType:  filterType,
			FilterValue: normalized,
		}
		if err := ctx.Store.SaveFilter(dbCtx, filter); err != nil {
			ctx.Logger.Error("failed to save filter", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send("😔 Erro ao salvar filtro")
		}

		return c.Send(
			utils.FormatFilters(FiltersToMap(ws.Jobs.Filters()))+"\n\n"+utils.EscapeMarkdown("Veja as vagas com /jobs"),
			tele.ModeMarkdownV2,
		)
	}
}

// normalizeFilterValue turns user input into the stored form of a filter value.
func normalizeFilterValue(filterType, value string) (string, bool) {
	switch filterType {
	case models.FilterTypeEmploymentType:
		t, ok := models.ParseEmploymentType(value)
		return string(t), ok
	case models.FilterTypeWorkModel:
		m, ok := models.ParseWorkModel(value)
		return string(m), ok
	case models.FilterTypeMinSalary, models.FilterTypeMaxSalary:
		v, ok := parseBRL(value)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return value, true
	}
}

// parseBRL reads amounts like "5000", "5.000", "R$ 5.000,50".
func parseBRL(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "R$")
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, ".", "")
	text = strings.ReplaceAll(text, ",", ".")

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// FiltersToMap lists the set job filters by filter type.
func FiltersToMap(f store.JobsFilters) map[string]string {
	m := make(map[string]string)

	put := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	putFloat := func(key string, v float64) {
		if v > 0 {
			m[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	put(models.FilterTypeSearch, f.Search)
	put(models.FilterTypeEmploymentType, string(f.EmploymentType))
	put(models.FilterTypeWorkModel, string(f.WorkModel))
	put(models.FilterTypeLocation, f.Location)
	putFloat(models.FilterTypeMinSalary, f.MinSalary)
	putFloat(models.FilterTypeMaxSalary, f.MaxSalary)
	put(models.FilterTypeCompany, f.CompanyID)

	return m
}

// ApplyFilterMap sets saved filters on f. Values that no longer parse are skipped.
func ApplyFilterMap(f *store.JobsFilters, m map[string]string) {
	for key, value := range m {
		switch key {
		case models.FilterTypeMinSalary, models.FilterTypeMaxSalary:
			// stored with a dot decimal separator
			if v, err := strconv.ParseFloat(value, 64); err != nil || v <= 0 {
				continue
			}
			setFilter(f, key, value)
		default:
			normalized, ok := normalizeFilterValue(key, value)
			if !ok {
				continue
			}
			setFilter(f, key, normalized)
		}
	}
}

// setFilter expects a normalized value; "" clears.
func setFilter(f *store.JobsFilters, filterType, value string) {
	switch filterType {
	case models.FilterTypeSearch:
		f.Search = value
	case models.FilterTypeEmploymentType:
		f.EmploymentType = godev.EmploymentType(value)
	case models.FilterTypeWorkModel:
		f.WorkModel = godev.WorkModel(value)
	case models.FilterTypeLocation:
		f.Location = value
	case models.FilterTypeMinSalary:
		f.MinSalary, _ = strconv.ParseFloat(value, 64)
	case models.FilterTypeMaxSalary:
		f.MaxSalary, _ = strconv.ParseFloat(value, 64)
	case models.FilterTypeCompany:
		f.CompanyID = value
	}
}
