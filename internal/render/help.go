package render

import "fmt"

type helpTopic struct {
	title   string
	content string
}

// helpTopics is the static help reference shown by the help menu.
var helpTopics = map[string]helpTopic{
	"general": {
		title: "Общая информация",
		content: "Добро пожаловать в PC Repair Bot!\n\n" +
			"Этот бот поможет вам:\n" +
			"• Оформить заявку на ремонт компьютера\n" +
			"• Узнать статус вашей заявки\n" +
			"• Получить информацию о наших услугах\n" +
			"• Участвовать в программе лояльности\n" +
			"• Получать уведомления о статусе заказа\n" +
			"• Управлять настройками профиля",
	},
	"services": {
		title: "Услуги",
		content: "Мы предоставляем следующие услуги:\n\n" +
			"• Диагностика компьютера\n" +
			"• Чистка от пыли\n" +
			"• Замена термопасты\n" +
			"• Установка Windows\n" +
			"• Замена комплектующих\n" +
			"• Сборка компьютера\n\n" +
			"Каждая услуга выполняется опытными специалистами с использованием профессионального оборудования.",
	},
	"loyalty": {
		title: "Программа лояльности",
		content: "За каждый заказ вы получаете бонусные баллы:\n\n" +
			"• Стандартный ремонт: 100-500 баллов\n" +
			"• Специальные предложения: до 750 баллов\n\n" +
			"Баллы можно использовать для получения скидок на будущие заказы.\n" +
			"Накопленные баллы действительны в течение 12 месяцев.",
	},
	"contact": {
		title: "Контакты",
		content: "Наши контакты:\n\n" +
			"📞 Телефон: +7 (XXX) XXX-XX-XX\n" +
			"📧 Email: support@pcrepair.com\n" +
			"📍 Адрес: г. Москва, ул. Примерная, д. 1\n\n" +
			"Режим работы:\n" +
			"Пн-Пт: 9:00 - 20:00\n" +
			"Сб-Вс: 10:00 - 18:00",
	},
}

// HelpMenu lists the available help sections.
func HelpMenu() string {
	return "❓ Выберите раздел справки:\n\n" +
		"• Общая информация\n• Услуги\n• Программа лояльности\n• Контакты"
}

// HelpTopic renders one help section; unknown keys fall back to the menu.
func HelpTopic(key string) string {
	t, ok := helpTopics[key]
	if !ok {
		return HelpMenu()
	}
	return fmt.Sprintf("*%s*\n\n%s", t.title, t.content)
}

// AdminPanel is the operator panel greeting.
func AdminPanel() string { return "⚙️ Панель администратора" }

// StatusUpdated acknowledges a lifecycle transition to the operator.
func StatusUpdated() string { return "✅ Статус обновлен" }

// RequestNotFound reports an unknown request id.
func RequestNotFound() string { return "⚠️ Заявка не найдена" }

// InvalidTransitionText reports an impossible status change.
func InvalidTransitionText() string {
	return "⚠️ Недопустимая смена статуса для этой заявки"
}

// NotificationsToggled acknowledges the settings toggle.
func NotificationsToggled(enabled bool) string {
	if enabled {
		return "🔔 Уведомления включены"
	}
	return "🔔 Уведомления выключены"
}

// ExportHint points the operator at the CSV ops endpoint.
func ExportHint(path string) string {
	return "📊 Экспорт готов: " + path
}
