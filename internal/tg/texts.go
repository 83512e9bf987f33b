package tg

const welcomeText = "👋 *Привет!* Я — *MarketSafe* — помощник по возвратам, претензиям и правам.\n\n" +
	"Выбери раздел в меню ниже или напиши /cancel для отмены текущего действия."

const deliveryText = "📦 *Сроки доставки*\n\n" +
	"- Проверяйте дату доставки в письме и в личном кабинете.\n" +
	"- При нарушении сроков можно требовать компенсацию или возврат.\n\n" +
	"_Пример запроса:_ \"Доставка Ozon задержана 3 дня — что делать?\""

const returnsText = "🔁 *Возврат и обмен*\n\n" +
	"- Сохраняйте чек и фото состояния товара.\n" +
	"- Для возврата отправьте претензию продавцу; если откажут — жалоба в Роспотребнадзор.\n\n" +
	"_Пример:_ \"Как вернуть товар, если он не пришёл в комплекте?\""

const howToReturnText = "🛒 *Как вернуть товар (пошагово):*\n" +
	"1) Свяжитесь с продавцом — чат/почта/телефон.\n" +
	"2) Подготовьте доказательства (фото, чек/скрин заказа, трек).\n" +
	"3) Отправьте претензию с требованием вернуть деньги/заменить товар.\n" +
	"4) Если продавец отказывает — жалоба в маркетплейс и Роспотребнадзор.\n\n" +
	"_Нужна помощь с формулировкой претензии?_ Нажмите «✍️ Автогенератор претензии»"

const rightsBuyerText = "🟢 *Права покупателя (кратко):*\n\n" +
	"• Право на получение товара надлежащего качества.\n" +
	"• Право на информацию о товаре и условиях продажи.\n" +
	"• Право на проверку товара до покупки.\n" +
	"• Право на возврат и обмен (в сроки, установленные законом).\n" +
	"• Право на гарантийное обслуживание и возмещение вреда.\n\n" +
	"Если нужно — воспользуйтесь «✍️ Автогенератор претензии»."

const rightsSellerText = "🔵 *Права продавца (кратко):*\n\n" +
	"• Право требовать оплату за товар/услугу.\n" +
	"• Право требовать принятия товара при соблюдении условий договора.\n" +
	"• Право на удержание товара до выполнения обязательств.\n" +
	"• Право на возврат товара в случае нарушения условий договора.\n\n" +
	"Продавцу полезно сохранять доказательства и вести переписку официально."

const faqText = "❓ *Частые вопросы:*\n\n" +
	"— *Можно ли вернуть без чека?* — Да, если есть другие доказательства (скрин заказа, подтверждение в личном кабинете и т.п.).\n" +
	"— *Сколько ждать деньги?* — Обычно до 10 рабочих дней после оформления возврата.\n" +
	"— *Продавец не отвечает?* — Составьте претензию, затем жалобу в маркетплейс или в Роспотребнадзор."

const contactsText = "☎️ *Полезные контакты:*\n\n" +
	"Роспотребнадзор: 8 (800) 555-49-43\n" +
	"Госуслуги: раздел «Защита прав потребителей»"

const cancelledText = "Действие отменено. Возвращаю в главное меню."

const notConfiguredText = "⚠️ Оплата ещё не настроена — ожидаем токен платёжного провайдера. Попробуйте позже."

const unknownSectionText = "Раздел временно недоступен."

const genericErrorText = "Произошла ошибка при обработке запроса. Попробуй позже."

const searchErrorText = "⚠️ Произошла ошибка при поиске. Попробуйте позже."

// exampleQuestions seed the ask-a-question keyboards.
var exampleQuestions = []string{
	"Как вернуть товар без чека?",
	"Продавец не отвечает на возврат брака",
	"Как составить претензию на маркетплейс?",
	"Что делать, если доставка задержана?",
	"Какие мои права как покупателя?",
}
