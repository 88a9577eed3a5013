package fallback

import (
	"pregnancy-nutrition-be/pkg/answer"
)

// foodTemplate is a canned safety answer for a food family
type foodTemplate struct {
	name     string
	keywords []string
	text     string
	dos      []string
	donts    []string
}

var foodTemplates = []foodTemplate{
	{
		name:     "meat",
		keywords: []string{"meat", "chicken", "mutton", "lamb", "pork", "beef", "goat", "poultry", "keema"},
		text: "Meat and poultry, including chicken and mutton, are safe during pregnancy when fully cooked. " +
			"They are an excellent source of protein, haem iron, zinc and B vitamins that support the baby's growth and help prevent anaemia.\n" +
			"Cooking guidance: cook meat until no pink remains and the juices run clear, with an internal temperature of at least 74°C (165°F). " +
			"Reheat leftovers until steaming hot and choose lean cuts.\n" +
			"Avoid raw, rare or undercooked meat, cold cured or deli meats, and pâté.",
		dos:   []string{"Cook meat until no pink remains (74°C inside)", "Reheat leftovers until steaming hot", "Choose lean cuts"},
		donts: []string{"Eat raw, rare or undercooked meat", "Eat cold cured or deli meats and pâté"},
	},
	{
		name:     "fish",
		keywords: []string{"fish", "seafood", "salmon", "tuna", "prawn", "prawns", "shrimp", "sardine", "sardines", "crab", "sushi"},
		text: "Fish can be part of a healthy pregnancy diet. Well-cooked, low-mercury fish such as salmon, sardines and trout provides protein and omega-3 fats for the baby's brain.\n" +
			"Limit fish to 2-3 servings a week, cook it until opaque and flaky, and avoid high-mercury fish (shark, swordfish, king mackerel) as well as raw fish such as sushi.",
		dos:   []string{"Choose low-mercury fish such as salmon, sardines and trout", "Cook fish until opaque and flaky", "Keep to 2-3 servings a week"},
		donts: []string{"Eat shark, swordfish or king mackerel", "Eat raw fish such as sushi"},
	},
	{
		name:     "eggs",
		keywords: []string{"egg", "eggs", "omelette", "omelet", "mayonnaise"},
		text: "Eggs are safe during pregnancy when cooked until both the yolk and white are firm. They provide protein and choline for the baby's brain development.\n" +
			"Avoid raw or runny eggs and foods made with raw egg, such as homemade mayonnaise or mousse, because of the Salmonella risk.",
		dos:   []string{"Cook eggs until yolk and white are firm"},
		donts: []string{"Eat raw or runny eggs", "Eat homemade mayonnaise or mousse"},
	},
	{
		name:     "dairy",
		keywords: []string{"milk", "dairy", "cheese", "paneer", "curd", "yogurt", "yoghurt", "butter", "ghee", "lassi"},
		text: "Pasteurised milk and dairy products are recommended during pregnancy for calcium, protein and vitamin D, which build the baby's bones and teeth.\n" +
			"Aim for about three servings a day. Avoid raw or unpasteurised milk and soft mould-ripened cheeses because of the Listeria risk.",
		dos:   []string{"Choose pasteurised milk and dairy", "Aim for about three servings a day"},
		donts: []string{"Drink raw or unpasteurised milk", "Eat soft mould-ripened cheeses"},
	},
	{
		name:     "fruits_vegetables",
		keywords: []string{"fruit", "fruits", "vegetable", "vegetables", "banana", "apple", "mango", "grapes", "orange", "spinach", "salad", "sprouts"},
		text: "Most fruits and vegetables are safe and highly beneficial during pregnancy. They provide vitamins, minerals and fibre that help digestion and immunity.\n" +
			"Wash all produce thoroughly, eat a variety of colours every day, and avoid raw sprouts, unwashed salads and unripe papaya.",
		dos:   []string{"Wash all produce thoroughly", "Eat a variety of colours every day"},
		donts: []string{"Eat raw sprouts or unwashed salads", "Eat unripe papaya"},
	},
}

var intentAnswers = map[Intent]string{
	IntentMealPlan: "A balanced pregnancy meal plan includes whole grains, dal or other proteins, a variety of vegetables and fruits, and 2-3 servings of dairy each day.\n" +
		"Eat small, frequent meals, include an iron source and a vitamin C source together, and drink 8-10 glasses of water daily.",
	IntentSafetyCheck: "Most home-cooked, hygienically prepared foods are safe in pregnancy. The main rules are: cook meat, fish and eggs thoroughly, choose pasteurised dairy, " +
		"wash fruits and vegetables well, and limit caffeine to about 200 mg a day. Avoid alcohol completely.",
	IntentFoodsToAvoid: "Foods to avoid during pregnancy include alcohol, raw or undercooked meat, fish and eggs, unpasteurised milk and soft cheeses, high-mercury fish, " +
		"unripe papaya, and excess caffeine. Also limit junk food and very salty or sugary snacks.",
	IntentBenefits: "A varied pregnancy diet supplies the protein, iron, folate, calcium and omega-3 fats your baby needs to grow. " +
		"Good nutrition also lowers the risk of anaemia, supports your energy levels and helps healthy weight gain.",
	IntentTrimesterSpecific: "Nutritional needs change through pregnancy. The first trimester focuses on folic acid and coping with nausea, the second on iron and calcium as the baby grows quickly, " +
		"and the third on protein, omega-3 fats and energy for the final weeks of growth.",
	IntentSeasonal: "Choose fresh seasonal fruits and vegetables, as they are usually more nutritious and affordable. In hot weather focus on hydration with water, buttermilk and coconut water; " +
		"in cold weather include warm soups, dals and seasonal greens, and always wash produce thoroughly.",
	IntentRegional: "Traditional home-cooked meals from every region can support a healthy pregnancy. Combine the local staple grain with dal or another protein, vegetables and curd, " +
		"and keep fried foods and very spicy dishes in moderation.",
	IntentGeneral: "A healthy pregnancy diet is built on variety: whole grains, pulses and lentils, fruits and vegetables, dairy, and protein foods such as eggs, fish or meat if you eat them. " +
		"Take the supplements your doctor recommends, stay hydrated, and keep regular antenatal check-ups.",
}

var trimesterTips = map[answer.Trimester]string{
	answer.TrimesterT1: "First trimester tip: focus on folic acid rich foods and small frequent meals to manage nausea.",
	answer.TrimesterT2: "Second trimester tip: increase iron and calcium intake as your baby grows rapidly.",
	answer.TrimesterT3: "Third trimester tip: eat protein and fibre rich foods, and smaller meals if heartburn is a problem.",
}

var dietNotes = map[answer.Diet]string{
	answer.DietVegetarian:    "As a vegetarian, combine dal, paneer, curd, nuts and seeds to meet protein needs.",
	answer.DietVegan:         "On a vegan diet, include soy, lentils, nuts and fortified foods, and ask your doctor about vitamin B12 and calcium supplements.",
	answer.DietEggetarian:    "Eggs are a convenient protein source for you; pair them with dal and dairy alternatives through the day.",
	answer.DietNonVegetarian: "Lean meat, fish and eggs are good protein and iron sources when thoroughly cooked.",
}

var conditionNotes = map[answer.Condition]string{
	answer.ConditionGestationalDiabetes: "With gestational diabetes, prefer whole grains and high-fibre foods, and limit sweets, fruit juices and sugary drinks.",
	answer.ConditionAnemia:              "For anaemia, eat iron-rich foods with vitamin C and take iron supplements as prescribed.",
	answer.ConditionHypertension:        "With high blood pressure, keep salt, pickles, papad and processed foods to a minimum.",
	answer.ConditionHypothyroidism:      "With hypothyroidism, take your thyroid medicine on an empty stomach and keep calcium or iron supplements a few hours apart from it.",
	answer.ConditionNausea:              "For nausea, try dry snacks in the morning, ginger or lemon, and avoid strong smelling or greasy food.",
}

var regionNotes = map[answer.Region]string{
	answer.RegionNorth: "Regional options such as roti with dal, rajma, sarson ka saag and lassi fit well into this plan.",
	answer.RegionSouth: "Regional options such as idli, dosa with sambar, ragi, curd rice and coconut-based curries fit well into this plan.",
	answer.RegionEast:  "Regional options such as rice with dal, fish curry (if you eat fish), and leafy greens like shak fit well into this plan.",
	answer.RegionWest:  "Regional options such as bajra or jowar roti, dhokla, poha and buttermilk fit well into this plan.",
}
