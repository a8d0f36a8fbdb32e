package dispatch

import (
	"context"

	"github.com/Veraticus/sol-search/internal/model"
)

const unsupportedMenuMessage = "요청하신 메뉴는 아직 지원하지 않아요. 아래 메뉴 중에서 골라주세요."

func (d *Dispatcher) handleMenu(ctx context.Context, c model.ClassifiedIntent, query string) (model.ResponseEnvelope, error) {
	menuType, ok := d.resolveMenu(c.Entities.MenuType, query)
	if !ok {
		d.logger.Debug("No route for menu request", "menu_type", c.Entities.MenuType, "query", query)
		env, err := d.helpEnvelope(ctx, c, "", unsupportedMenuMessage)
		env.Suggestions = menuSuggestions()
		return env, err
	}

	route, _ := model.LookupRoute(menuType)
	return model.ResponseEnvelope{
		Success:        true,
		ActionType:     model.ActionMenu,
		RedirectTarget: route.Path,
		Confidence:     c.Confidence,
		Message:        route.Message,
		Suggestions:    append([]string(nil), route.Suggestions[:]...),
		ScreenData: model.MenuScreen{
			MenuType: menuType,
			Route:    route.Path,
		},
	}, nil
}

// resolveMenu looks the entity up in the route table, then walks the ordered
// keyword table over the raw query.
func (d *Dispatcher) resolveMenu(entity model.MenuType, query string) (model.MenuType, bool) {
	if entity.Valid() {
		return entity, true
	}
	return d.extractor.Library().MatchMenu(query)
}

func menuSuggestions() []string {
	return []string{"환전", "환율계산기", "카드 신청", "대출 조회", "계좌이체"}
}
