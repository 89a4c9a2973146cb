// Package render builds the outbound user-facing texts of the bot. All
// strings are Russian, matching the operator tooling. Money amounts in the
// aggregate views go through a Russian-locale printer so large revenue
// numbers stay readable.
package render

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitryilife/repairbot/internal/catalog"
	"github.com/dmitryilife/repairbot/internal/domain"
)

// DateTimeLayout is the display layout for timestamps (DD.MM.YYYY HH:mm).
const DateTimeLayout = "02.01.2006 15:04"

var rus = message.NewPrinter(language.Russian)

// Money formats an amount in rubles with locale-aware grouping.
func Money(amount int) string {
	return rus.Sprintf("%d₽", amount)
}

// StatusLabel returns the emoji-prefixed human label for a status.
func StatusLabel(s domain.Status) string {
	switch s {
	case domain.StatusPending:
		return "⏳ В ожидании"
	case domain.StatusInProgress:
		return "🔧 В работе"
	case domain.StatusCompleted:
		return "✅ Завершено"
	case domain.StatusCancelled:
		return "❌ Отменено"
	}
	return string(s)
}

// Welcome greets a user or an operator on /start.
func Welcome(operator bool) string {
	if operator {
		return "👋 Добро пожаловать в панель администратора!"
	}
	return "👋 Добро пожаловать в PC Repair Bot!\n\n" +
		"Здесь вы можете:\n" +
		"• Заказать ремонт компьютера\n" +
		"• Узнать статус заказа\n" +
		"• Получить бонусные баллы\n" +
		"• Воспользоваться специальными предложениями\n" +
		"• Настроить уведомления\n" +
		"• Получить техническую поддержку"
}

// RateLimited asks the user to slow down.
func RateLimited() string {
	return "⚠️ Пожалуйста, подождите немного перед следующим запросом."
}

// Forbidden denies an operator-only action.
func Forbidden() string {
	return "⛔ У вас нет доступа к этой функции"
}

// GenericError is the catch-all failure reply.
func GenericError() string {
	return "Произошла ошибка при обработке запроса."
}

// ServiceList renders the standard service menu.
func ServiceList() string {
	var b strings.Builder
	b.WriteString("🔧 Выберите услугу из списка:\n\n")
	for _, s := range catalog.Services {
		fmt.Fprintf(&b, "*%s*\n💰 Цена: %d₽\n⏱ Длительность: %s\n📝 %s\n\n", s.Name, s.Price, s.Duration, s.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// OfferList renders the special-offer menu.
func OfferList() string {
	var b strings.Builder
	b.WriteString("🎁 Специальные предложения:\n\n")
	for _, o := range catalog.Offers {
		fmt.Fprintf(&b, "*%s*\n💰 Цена: %d₽\n⭐ Бонус: %d баллов\n⏱ Длительность: %s\n📝 %s\n\n", o.Name, o.Price, o.Points, o.Duration, o.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RequestCreated confirms a new request to its owner.
func RequestCreated(item domain.CatalogItem, req domain.RepairRequest, points int) string {
	return fmt.Sprintf(
		"✅ Заявка на \"%s\" успешно создана!\n\n"+
			"🔢 Номер заявки: #%d\n"+
			"💰 Стоимость: %d₽\n"+
			"⏱ Примерная длительность: %s\n\n"+
			"⭐ Вам начислено %d бонусных баллов!\n\n"+
			"Мы свяжемся с вами для уточнения деталей.\n"+
			"Напоминание будет отправлено через 24 часа, если статус не изменится.",
		item.Name, req.ID, req.FinalPrice, item.Duration, points)
}

// NewRequestForOperator announces a fresh request to the operators.
func NewRequestForOperator(item domain.CatalogItem, req domain.RepairRequest) string {
	suffix := ""
	if req.IsBundle {
		suffix = " (Спецпредложение)"
	}
	return fmt.Sprintf(
		"🆕 Новая заявка #%d%s\n\n👤 Клиент: %d\n📝 Услуга: %s\n💰 Стоимость: %d₽\n📅 Создана: %s",
		req.ID, suffix, req.UserID, item.Name, req.FinalPrice, req.CreatedAt.Format(DateTimeLayout))
}

// StatusChanged notifies the owner about a lifecycle transition.
func StatusChanged(req domain.RepairRequest) string {
	var line string
	switch req.Status {
	case domain.StatusPending:
		line = "⏳ Ваша заявка ожидает обработки"
	case domain.StatusInProgress:
		line = "🔧 Ваша заявка взята в работу"
	case domain.StatusCompleted:
		line = "✅ Ваша заявка выполнена"
	case domain.StatusCancelled:
		line = "❌ Ваша заявка отменена"
	}
	msg := fmt.Sprintf("📢 Обновление статуса заявки #%d\n\n📝 Услуга: %s\n%s",
		req.ID, catalog.Name(req.CatalogItemID, req.IsBundle), line)
	if req.Status == domain.StatusCompleted {
		msg += "\n\nСпасибо за доверие! Будем рады видеть вас снова!"
	}
	return msg
}

// PendingReminder is the 24h "request still pending" reminder.
func PendingReminder(requestID int64) string {
	return fmt.Sprintf("⏰ Напоминание: у вас есть активная заявка #%d\n"+
		"Не забудьте подтвердить удобное время для ремонта!", requestID)
}

// ScheduleAssigned notifies the owner about a newly scheduled time.
func ScheduleAssigned(requestID int64, at time.Time) string {
	return fmt.Sprintf("📅 Для вашей заявки #%d назначено время:\n%s\n\n"+
		"Напоминание придет за 2 часа до назначенного времени.",
		requestID, at.Format(DateTimeLayout))
}

// ScheduleReminder is the pre-visit reminder sent ahead of the scheduled time.
func ScheduleReminder(requestID int64, at time.Time) string {
	return fmt.Sprintf("⏰ Напоминание: ремонт по заявке #%d назначен на %s",
		requestID, at.Format(DateTimeLayout))
}

// Profile renders the user's profile summary with up to three recent orders.
func Profile(userID int64, settings domain.UserSettings, points, totalSpent int, requests []domain.RepairRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📱 *Ваш профиль:*\n\n👤 ID: %d\n📞 Телефон: %s\n📧 Email: %s\n⭐ Баллы: %d\n💰 Потрачено: %s\n📊 Всего заказов: %d\n\n",
		userID, orDash(settings.Phone), orDash(settings.Email), points, Money(totalSpent), len(requests))
	if len(requests) > 0 {
		b.WriteString("*Последние заказы:*\n\n")
		for i, req := range requests {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "🔧 %s\n💰 Стоимость: %d₽\n📅 Дата: %s\n📋 Статус: %s\n\n",
				catalog.Name(req.CatalogItemID, req.IsBundle), req.FinalPrice,
				req.CreatedAt.Format(DateTimeLayout), StatusLabel(req.Status))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// SettingsView renders the current settings.
func SettingsView(settings domain.UserSettings) string {
	state := "Выключены"
	if settings.Notifications {
		state = "Включены"
	}
	return fmt.Sprintf("⚙️ *Настройки*\n\n🔔 Уведомления: %s\n📱 Телефон: %s\n📧 Email: %s",
		state, orDash(settings.Phone), orDash(settings.Email))
}

// ActiveRequests renders the operator view of active requests.
func ActiveRequests(requests []domain.RepairRequest, settings func(int64) domain.UserSettings) string {
	if len(requests) == 0 {
		return "📋 Активных заявок нет"
	}
	var b strings.Builder
	b.WriteString("📋 *Активные заявки:*\n\n")
	for _, req := range requests {
		s := settings(req.UserID)
		emoji := "⏳"
		if req.Status == domain.StatusInProgress {
			emoji = "🔧"
		}
		fmt.Fprintf(&b, "%s Заявка #%d\n📱 ID: %d\n📞 Телефон: %s\n📧 Email: %s\n📝 %s\n💰 Стоимость: %d₽\n📅 Создана: %s\n\n",
			emoji, req.ID, req.UserID, orDash(s.Phone), orDash(s.Email),
			catalog.Name(req.CatalogItemID, req.IsBundle), req.FinalPrice,
			req.CreatedAt.Format(DateTimeLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}

// AllRequests renders every request grouped by creation day.
func AllRequests(requests []domain.RepairRequest) string {
	if len(requests) == 0 {
		return "📋 Заявок пока нет"
	}
	var b strings.Builder
	b.WriteString("📊 *Все заявки:*\n\n")
	currentDay := ""
	for _, req := range requests {
		day := req.CreatedAt.Format("02.01.2006")
		if day != currentDay {
			currentDay = day
			fmt.Fprintf(&b, "📅 *%s*\n\n", day)
		}
		fmt.Fprintf(&b, "%s Заявка #%d\n📱 ID клиента: %d\n📝 %s\n💰 Стоимость: %d₽\n⏰ Время: %s\n\n",
			statusEmoji(req.Status), req.ID, req.UserID,
			catalog.Name(req.CatalogItemID, req.IsBundle), req.FinalPrice,
			req.CreatedAt.Format("15:04"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Clients renders the client-management rollup sorted by total spent.
func Clients(rollups []domain.ClientRollup, settings func(int64) domain.UserSettings) string {
	if len(rollups) == 0 {
		return "👥 Клиентов пока нет"
	}
	var b strings.Builder
	b.WriteString("👥 *Список клиентов:*\n\n")
	for _, c := range rollups {
		s := settings(c.UserID)
		fmt.Fprintf(&b, "👤 Клиент: %d\n📞 Телефон: %s\n📧 Email: %s\n📊 Заявок: %d\n💰 Потрачено: %s\n⭐ Баллы: %d\n📅 Последняя активность: %s\n\n",
			c.UserID, orDash(s.Phone), orDash(s.Email), c.TotalOrders,
			Money(c.TotalSpent), c.Points, c.LastActiveAt.Format(DateTimeLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}

// StatsView renders the admin statistics snapshot.
func StatsView(st domain.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 *Общая статистика:*\n\n📊 Всего заявок: %d\n⏳ Активных: %d\n✅ Завершено: %d\n❌ Отменено: %d\n💰 Общая выручка: %s\n👥 Уникальных клиентов: %d\n\n",
		st.Total, st.Active, st.Completed, st.Cancelled, Money(st.TotalRevenue), st.UniqueClients)
	b.WriteString("*Статистика за период:*\n\n")
	fmt.Fprintf(&b, "📅 Сегодня:\n• Заявок: %d\n• Выручка: %s\n\n", st.Today.Requests, Money(st.Today.Revenue))
	fmt.Fprintf(&b, "📅 Эта неделя:\n• Заявок: %d\n• Выручка: %s\n\n", st.Week.Requests, Money(st.Week.Revenue))
	fmt.Fprintf(&b, "📅 Этот месяц:\n• Заявок: %d\n• Выручка: %s\n\n", st.Month.Requests, Money(st.Month.Revenue))
	if len(st.TopItems) > 0 {
		b.WriteString("🏆 *Топ популярных услуг:*\n\n")
		for i, item := range st.TopItems {
			fmt.Fprintf(&b, "%d. %s\n• Заказов: %d\n• Доля: %d%%\n\n", i+1, item.Name, item.Count, item.SharePercent)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RequestCard renders the operator detail card for one request.
func RequestCard(req domain.RepairRequest, settings domain.UserSettings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Заявка #%d*\n\n👤 Клиент ID: %d\n📞 Телефон: %s\n📧 Email: %s\n📝 Услуга: %s\n💰 Стоимость: %d₽\n📅 Создана: %s\n📋 Статус: %s\n",
		req.ID, req.UserID, orDash(settings.Phone), orDash(settings.Email),
		catalog.Name(req.CatalogItemID, req.IsBundle), req.FinalPrice,
		req.CreatedAt.Format(DateTimeLayout), StatusLabel(req.Status))
	if req.Comment != "" {
		fmt.Fprintf(&b, "💬 Комментарий: %s\n", req.Comment)
	}
	if req.ScheduledTime != nil {
		fmt.Fprintf(&b, "⏰ Назначено время: %s\n", req.ScheduledTime.Format(DateTimeLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Prompts for the capture flows.
func BroadcastPrompt() string { return "📢 Введите текст сообщения для рассылки:" }
func CommentPrompt() string   { return "💬 Введите комментарий к заявке:" }
func SchedulePrompt() string  { return "📅 Введите дату и время в формате DD.MM.YYYY HH:mm:" }
func PhonePrompt() string     { return "📱 Введите ваш номер телефона:" }
func EmailPrompt() string     { return "📧 Теперь введите ваш email:" }

// Capture results and retry prompts.
func CommentSaved() string  { return "💬 Комментарий добавлен к заявке" }
func ScheduleSaved() string { return "📅 Время успешно назначено" }
func ContactsSaved() string { return "✅ Контактные данные успешно обновлены!" }
func InvalidPhone() string {
	return "⚠️ Неверный формат номера телефона. Попробуйте еще раз:"
}
func InvalidEmail() string {
	return "⚠️ Неверный формат email. Попробуйте еще раз:"
}
func InvalidSchedule() string {
	return "⚠️ Неверный формат даты и времени. Попробуйте еще раз (DD.MM.YYYY HH:mm):"
}

// BroadcastText wraps an operator broadcast for end users.
func BroadcastText(text string) string {
	return "📢 *Важное сообщение:*\n\n" + text
}

// BroadcastReport summarizes a finished broadcast for the operator.
func BroadcastReport(success, failed int) string {
	return fmt.Sprintf("📢 Рассылка завершена\n\n✅ Успешно отправлено: %d\n❌ Ошибок: %d", success, failed)
}

func statusEmoji(s domain.Status) string {
	switch s {
	case domain.StatusPending:
		return "⏳"
	case domain.StatusInProgress:
		return "🔧"
	case domain.StatusCompleted:
		return "✅"
	case domain.StatusCancelled:
		return "❌"
	}
	return "•"
}

func orDash(s string) string {
	if s == "" {
		return "Не указан"
	}
	return s
}
