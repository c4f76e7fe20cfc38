package i18n

// messages is static configuration: key → locale → text.
var messages = map[string]map[string]string{
	"intro.text": {
		"en": "🛒 Dilli — save together on groceries.\n" +
			"Send prices you see in the supermarket and help everyone find cheaper options.\n\n" +
			"Choose one of the buttons (or type the text):\n" +
			"• add a deal — share a price you just found\n" +
			"• find a deal — see what others reported nearby\n\n" +
			"Type \"help\" anytime to see this again.",
		"he": "🛒 דילי — חוסכים יחד על קניות.\n" +
			"שלחו מחירים שראיתם בסופר ועזרו לכולם למצוא זול יותר.\n\n" +
			"בחרו אחד מהכפתורים (או הקלידו את הטקסט):\n" +
			"• הוסף דיל — שתפו מחיר שמצאתם\n" +
			"• מצא דיל — ראו מה אחרים דיווחו באזור\n\n" +
			"אפשר להקליד \"עזרה\" בכל שלב כדי לראות את זה שוב.",
	},
	"intro.button.add":  {"en": "Add a deal", "he": "הוסף דיל"},
	"intro.button.find": {"en": "Find a deal", "he": "מצא דיל"},

	"prompt.city": {
		"en": "Which city is the store in?",
		"he": "באיזו עיר נמצאת החנות?",
	},
	"prompt.city.saved": {
		"en": "Last time you reported from {city}. Keep using it?",
		"he": "בפעם הקודמת דיווחת מ{city}. להמשיך עם אותה עיר?",
	},
	"button.city.keep":   {"en": "Keep {city}", "he": "להישאר ב{city}"},
	"button.city.change": {"en": "Change city", "he": "עיר אחרת"},
	"prompt.city.choose": {
		"en": "I know a few cities by that name:\n{list}\nReply with a number.",
		"he": "אני מכיר כמה ערים בשם הזה:\n{list}\nהשיבו עם מספר.",
	},
	"prompt.store": {
		"en": "Which store or chain is this deal from?\nExample: \"Shufersal\".",
		"he": "מאיזו חנות או רשת הדיל?\nלדוגמה: \"שופרסל\".",
	},
	"prompt.branch": {
		"en": "Which branch? Reply with a branch name or address, or \"skip\".",
		"he": "איזה סניף? השיבו עם שם סניף או כתובת, או \"דלג\".",
	},
	"prompt.store_confirm": {
		"en": "I found a few matching stores:\n{list}\nReply with a number, or send more detail (branch or address).",
		"he": "מצאתי כמה חנויות מתאימות:\n{list}\nהשיבו עם מספר, או שלחו פרט נוסף (סניף או כתובת).",
	},
	"prompt.product": {
		"en": "What product is this? Include brand and size if possible.",
		"he": "איזה מוצר זה? כללו מותג וגודל אם אפשר.",
	},
	"prompt.brand": {
		"en": "What brand is it? Reply with a brand or \"skip\".",
		"he": "איזה מותג? השיבו עם מותג או \"דלג\".",
	},
	"prompt.unit_type": {
		"en": "How is the product measured? (e.g., liter, kg, unit)",
		"he": "איך המוצר נמדד? (לדוגמה: ליטר, ק\"ג, יחידה)",
	},
	"prompt.unit_quantity": {
		"en": "What quantity per unit? Reply with a number (e.g., 1.5).",
		"he": "מה הכמות ליחידה? השיבו עם מספר (לדוגמה: 1.5).",
	},
	"prompt.price": {
		"en": "What is the price? Reply with numbers only (e.g., 4.90).",
		"he": "מה המחיר? השיבו עם מספרים בלבד (לדוגמה: 4.90).",
	},
	"prompt.units": {
		"en": "How many units does this price cover? Reply with a number (default 1).",
		"he": "כמה יחידות המחיר כולל? השיבו עם מספר (ברירת מחדל 1).",
	},
	"prompt.club": {
		"en": "Is this deal only for club/loyalty members? Reply \"yes\" or \"no\".",
		"he": "האם הדיל רק לחברי מועדון? השיבו \"כן\" או \"לא\".",
	},
	"prompt.limit": {
		"en": "Is there a quantity limit per shopper? Reply with a number or \"no\".",
		"he": "יש הגבלת כמות לקונה? השיבו עם מספר או \"לא\".",
	},
	"prompt.cart": {
		"en": "Is there a minimum cart total to unlock this deal? Reply with an amount or \"no\".",
		"he": "יש מינימום קנייה בשביל הדיל? השיבו עם סכום או \"לא\".",
	},

	"error.reply_empty": {
		"en": "Please send a reply so I can continue.",
		"he": "אנא שלחו תשובה כדי שאוכל להמשיך.",
	},
	"error.price.invalid": {
		"en": "Please send the price as digits, e.g., 4.90",
		"he": "אנא שלחו את המחיר בספרות, לדוגמה: 4.90",
	},
	"error.price.nonpositive": {
		"en": "Price must be greater than zero.",
		"he": "המחיר חייב להיות גדול מאפס.",
	},
	"error.quantity.invalid": {
		"en": "Please reply with a number greater than zero, e.g., 1 or 1.5.",
		"he": "אנא השיבו עם מספר גדול מאפס, לדוגמה: 1 או 1.5.",
	},
	"error.units.invalid": {
		"en": "Please reply with a whole number, e.g., 1 or 3.",
		"he": "אנא השיבו עם מספר שלם, לדוגמה: 1 או 3.",
	},
	"error.units.nonpositive": {
		"en": "Number of units must be at least 1.",
		"he": "מספר היחידות חייב להיות לפחות 1.",
	},
	"error.club.invalid": {
		"en": "Please reply \"yes\" or \"no\".",
		"he": "אנא השיבו \"כן\" או \"לא\".",
	},
	"error.limit.invalid": {
		"en": "Please reply with a number (e.g., 2) or \"no\".",
		"he": "אנא השיבו עם מספר (לדוגמה: 2) או \"לא\".",
	},
	"error.limit.nonpositive": {
		"en": "Limit must be at least 1, or reply \"no\".",
		"he": "ההגבלה חייבת להיות לפחות 1, או השיבו \"לא\".",
	},
	"error.cart.invalid": {
		"en": "Please send the amount as digits, e.g., 100 or 150.5",
		"he": "אנא שלחו את הסכום בספרות, לדוגמה: 100 או 150.5",
	},
	"error.cart.nonpositive": {
		"en": "Cart total must be greater than zero, or reply \"no\".",
		"he": "סכום הקנייה חייב להיות גדול מאפס, או השיבו \"לא\".",
	},
	"error.choice.invalid": {
		"en": "Please reply with one of the listed numbers.",
		"he": "אנא השיבו עם אחד מהמספרים ברשימה.",
	},

	"flow.canceled": {
		"en": "Okay, I canceled that deal. Tap \"Add a deal\" anytime to start again.",
		"he": "בסדר, ביטלתי את הדיל. אפשר ללחוץ \"הוסף דיל\" בכל שלב כדי להתחיל מחדש.",
	},
	"flow.fallback_complete": {
		"en": "Thanks! You can start a new deal anytime.",
		"he": "תודה! אפשר להתחיל דיל חדש בכל שלב.",
	},

	"summary.store":   {"en": "Store: {value}", "he": "חנות: {value}"},
	"summary.branch":  {"en": "Branch: {value}", "he": "סניף: {value}"},
	"summary.city":    {"en": "City: {value}", "he": "עיר: {value}"},
	"summary.product": {"en": "Product: {value}", "he": "מוצר: {value}"},
	"summary.brand":   {"en": "Brand: {value}", "he": "מותג: {value}"},
	"summary.unit":    {"en": "Unit: {value}", "he": "יחידת מידה: {value}"},
	"summary.price": {
		"en": "Price: {price} ({units} unit(s))",
		"he": "מחיר: {price} ({units} יחידות)",
	},
	"summary.club.yes": {"en": "Club members only: yes", "he": "לחברי מועדון בלבד: כן"},
	"summary.club.no":  {"en": "Club members only: no", "he": "לחברי מועדון בלבד: לא"},
	"summary.limit":    {"en": "Quantity limit: {value}", "he": "הגבלת כמות: {value}"},
	"summary.cart":     {"en": "Minimum cart: {value}", "he": "מינימום קנייה: {value}"},
	"summary.moderation": {
		"en": "Status: awaiting moderation",
		"he": "סטטוס: ממתין לאישור",
	},
	"summary.closing": {
		"en": "Thanks! We'll review this deal and let everyone know. You can tap \"Add a deal\" to share another one.",
		"he": "תודה! נבדוק את הדיל ונעדכן את כולם. אפשר ללחוץ \"הוסף דיל\" כדי לשתף עוד אחד.",
	},
	"summary.gratitude": {
		"en": "Thank you for helping the community save together!",
		"he": "תודה שאתם עוזרים לקהילה לחסוך יחד!",
	},

	"prompt.search.product": {
		"en": "Which product are you looking for?",
		"he": "איזה מוצר אתם מחפשים?",
	},
	"prompt.search.brand": {
		"en": "Any specific brand? Reply with a brand or \"skip\".",
		"he": "מותג מסוים? השיבו עם מותג או \"דלג\".",
	},
	"prompt.search.location": {
		"en": "Which city should I search in?",
		"he": "באיזו עיר לחפש?",
	},
	"search.none": {
		"en": "Sorry, I couldn't find any recent deals for {product}.",
		"he": "מצטער, לא מצאתי דילים עדכניים עבור {product}.",
	},
	"search.header": {
		"en": "Here are the latest deals:",
		"he": "הנה הדילים האחרונים:",
	},
	"search.row": {
		"en": "• {product} — {price}₪ at {store} ({city})",
		"he": "• {product} — {price}₪ ב{store} ({city})",
	},
	"search.tip": {
		"en": "Tip: tap \"Add a deal\" to share your own find.",
		"he": "טיפ: לחצו \"הוסף דיל\" כדי לשתף מציאה משלכם.",
	},
	"search.restart": {
		"en": "Please start again and tell me which product you want.",
		"he": "אנא התחילו מחדש וספרו לי איזה מוצר אתם רוצים.",
	},

	"notes.limit": {
		"en": "Limit per shopper: {limit}",
		"he": "הגבלה לקונה: {limit}",
	},
}
