package flavor

import "strings"

// molecularPairings 本地分子配對表：心情、健康目標、味覺輪廓、情境。
// 來源：FlavorDB、營養精神醫學文獻、food pairing theory。
// 活體查詢與生成式翻譯都失敗時的最後一層科學 fallback。
var molecularPairings = map[string][]string{
	// --- 心情（神經傳導物質與化合物） ---

	// 充滿活力（多巴胺/去甲腎上腺素：Citral、Limonene、Capsaicin、咖啡因）
	"energetic":   {"Lemon", "Ginger", "Peppermint", "Rosemary", "Chili", "Grapefruit", "Green Tea", "Dark Chocolate", "Spinach"},
	"high energy": {"Lemon", "Ginger", "Peppermint", "Rosemary", "Chili", "Grapefruit"},

	// 放鬆（GABA/血清素調節：Linalool、鎂、色胺酸）
	"relaxed": {"Lavender", "Chamomile", "Honey", "Oat", "Cherry", "Banana", "Almond", "Sweet Potato", "Warm Milk"},
	"chill":   {"Lavender", "Chamomile", "Honey", "Oat", "Cherry", "Banana", "Almond", "Sweet Potato"},

	// 憂鬱（血清素/Omega-3：Omega-3 脂肪酸、葉酸、硒）
	"melancholic": {"Salmon", "Walnut", "Dark Chocolate", "Berry", "Spinach", "Avocado", "Turmeric", "Yogurt"},
	"sad":         {"Salmon", "Walnut", "Dark Chocolate", "Berry", "Spinach", "Avocado"},

	// 壓力（降皮質醇：維生素 C、鎂、L-茶胺酸）
	"stressed": {"Orange", "Blueberry", "Avocado", "Almond", "Spinach", "Salmon", "Chamomile", "Asparagus"},
	"anxious":  {"Orange", "Blueberry", "Avocado", "Almond", "Spinach", "Salmon"},

	// 開心（腦內啡/血清素：苯乙胺、香草醛、薑黃素）
	"happy": {"Strawberry", "Vanilla", "Peach", "Coconut", "Mango", "Banana", "Coffee", "Chili"},

	// 浪漫（催情/血管擴張：Capsaicin、鋅、苯乙胺）
	"romantic": {"Strawberry", "Chocolate", "Oyster", "Vanilla", "Chili", "Fig", "Pomegranate", "Red Wine"},

	// 專注（認知增強：類黃酮、咖啡因、膽鹼）
	"focused": {"Salmon", "Walnut", "Blueberry", "Matcha", "Coffee", "Egg", "Broccoli", "Pumpkin Seed"},

	// --- 健康目標 ---
	"keto":         {"Avocado", "Salmon", "Egg", "Butter", "Steak", "Cheese", "Olive Oil", "Cauliflower", "Bacon"},
	"vegan":        {"Tofu", "Lentil", "Chickpea", "Quinoa", "Spinach", "Mushrooms", "Almond", "Seitan", "Tempeh"},
	"low calorie":  {"Cucumber", "Celery", "Watermelon", "Zucchini", "Leafy Greens", "Grapefruit", "Berries"},
	"high protein": {"Chicken Breast", "Tuna", "Greek Yogurt", "Egg White", "Turkey", "Cottage Cheese", "Lean Beef"},
	"gluten free":  {"Rice", "Quinoa", "Potato", "Corn", "Buckwheat", "Almond Flour", "Coconut Flour"},

	// --- 情境 ---
	"party":     {"Pizza", "Nachos", "Wings", "Chips", "Beer", "Soda", "Tacos"},
	"comfort":   {"Mac and Cheese", "Soup", "Stew", "Mashed Potato", "Pie", "Pasta"},
	"breakfast": {"Pancake", "Egg", "Oatmeal", "Toast", "Bacon", "Waffle", "Smoothie"},

	// --- 味覺輪廓（直接查詢如 "Spicy"） ---
	"spicy":  {"Chili", "Jalapeno", "Cayenne", "Paprika", "Garlic", "Sriracha", "Pepper", "Cumin", "Curry"},
	"sweet":  {"Sugar", "Honey", "Maple Syrup", "Vanilla", "Berry", "Chocolate", "Caramel"},
	"salty":  {"Sea Salt", "Soy Sauce", "Cheese", "Olive", "Bacon", "Capers", "Anchovy"},
	"bitter": {"Coffee", "Dark Chocolate", "Kale", "Arugula", "Grapefruit", "Turmeric"},
	"sour":   {"Lemon", "Lime", "Vinegar", "Yogurt", "Pickle", "Tamarind"},
}

// moodToIngredient 抽象心情對映到 FlavorDB 聽得懂的具體食材，
// 例如 "chill" 直接查會 404，查 "Mint" 才有配對
var moodToIngredient = map[string]string{
	"chill":       "Mint",
	"relaxed":     "Chamomile",
	"energetic":   "Lemon",
	"happy":       "Vanilla",
	"romantic":    "Strawberry",
	"melancholic": "Dark Chocolate",
	"stressed":    "Orange",
	"focused":     "Coffee",
}

// cannedTranslations 生成式翻譯被限流或回傳壞資料時的罐頭對照
var cannedTranslations = map[string]string{
	"comfort food": "potato",
	"happy":        "vanilla",
	"sad":          "chocolate",
	"energetic":    "lemon",
	"relaxed":      "chamomile",
	"stressed":     "mint",
	"romantic":     "strawberry",
	"party":        "cheese",
	"focused":      "coffee",
}

// 罐頭對照都沒中時的中性食材
const neutralIngredient = "mint"

// lookupTable 查本地配對表：先整串比對，再做複合拆解
// （"keto vegan" 以空白/逗號拆開，取各自配對的聯集）
func lookupTable(label string) []string {
	if matches, ok := molecularPairings[label]; ok {
		return matches
	}

	var compounds []string
	for _, part := range strings.FieldsFunc(label, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		if matches, ok := molecularPairings[part]; ok {
			compounds = append(compounds, matches...)
		}
	}
	return dedupe(compounds)
}

// cannedTranslation 查罐頭對照，沒中就退回中性食材
func cannedTranslation(label string) string {
	if ing, ok := cannedTranslations[label]; ok {
		return ing
	}
	if first, _, found := strings.Cut(label, " "); found {
		if ing, ok := cannedTranslations[first]; ok {
			return ing
		}
	}
	return neutralIngredient
}

// dedupe 去重、保留首次出現順序
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
