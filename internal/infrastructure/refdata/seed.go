package refdata

import (
	"dish-impact/internal/core/lexicon"
	"dish-impact/internal/core/prefs"
)

// DefaultSeed 內建參考資料，讓服務在沒有遠端資料來源時也能獨立運行。
// 數值為啟發式估計，不是臨床資料。
func DefaultSeed() *Seed {
	return &Seed{
		Aliases: []AliasRule{
			{Pattern: "parmesan", Slug: "parmesan", Priority: 10},
			{Pattern: "spring onion", Slug: "scallion", Priority: 10},
			{Pattern: "green onion", Slug: "scallion", Priority: 11},
			{Pattern: "red onion", Slug: "onion", Priority: 12},
			{Pattern: "onion", Slug: "onion", Priority: 20},
			{Pattern: "garlic", Slug: "garlic", Priority: 20},
			{Pattern: "heavy cream", Slug: "cream", Priority: 10},
			{Pattern: "cream", Slug: "cream", Priority: 20},
			{Pattern: "butter", Slug: "butter", Priority: 20},
			{Pattern: "whole milk", Slug: "milk", Priority: 10},
			{Pattern: "milk", Slug: "milk", Priority: 20},
			{Pattern: "salmon", Slug: "salmon", Priority: 20},
			{Pattern: "espresso", Slug: "coffee", Priority: 10},
			{Pattern: "coffee", Slug: "coffee", Priority: 20},
			{Pattern: "red wine", Slug: "red_wine", Priority: 10},
			{Pattern: "wheat flour", Slug: "wheat_flour", Priority: 10},
			{Pattern: "flour", Slug: "wheat_flour", Priority: 20},
			{Pattern: "spinach", Slug: "spinach", Priority: 20},
			{Pattern: "tofu", Slug: "tofu", Priority: 20},
		},
		Yields: []CompoundYield{
			{Ingredient: "garlic", Slug: "garlic", CompoundID: "allicin", MgPer100g: 5},
			{Ingredient: "garlic", Slug: "garlic", CompoundID: "fructan", MgPer100g: 1700},
			{Ingredient: "onion", Slug: "onion", CompoundID: "fructan", MgPer100g: 2000},
			{Ingredient: "onion", Slug: "onion", CompoundID: "quercetin", MgPer100g: 20},
			{Ingredient: "parmesan", Slug: "parmesan", CompoundID: "histamine", MgPer100g: 50},
			{Ingredient: "parmesan", Slug: "parmesan", CompoundID: "lactose", MgPer100g: 60},
			{Ingredient: "cream", Slug: "cream", CompoundID: "lactose", MgPer100g: 3000},
			{Ingredient: "cream", Slug: "cream", CompoundID: "saturated_fat", MgPer100g: 23000},
			{Ingredient: "butter", Slug: "butter", CompoundID: "saturated_fat", MgPer100g: 51000},
			{Ingredient: "milk", Slug: "milk", CompoundID: "lactose", MgPer100g: 4800},
			{Ingredient: "salmon", Slug: "salmon", CompoundID: "omega3", MgPer100g: 2200},
			{Ingredient: "salmon", Slug: "salmon", CompoundID: "histamine", MgPer100g: 10},
			{Ingredient: "coffee", Slug: "coffee", CompoundID: "caffeine", MgPer100g: 40},
			{Ingredient: "red wine", Slug: "red_wine", CompoundID: "ethanol", MgPer100g: 10500},
			{Ingredient: "red wine", Slug: "red_wine", CompoundID: "resveratrol", MgPer100g: 0.3},
			{Ingredient: "wheat flour", Slug: "wheat_flour", CompoundID: "gluten_protein", MgPer100g: 9000},
			{Ingredient: "spinach", Slug: "spinach", CompoundID: "oxalate", MgPer100g: 970},
			{Ingredient: "spinach", Slug: "spinach", CompoundID: "lutein", MgPer100g: 12},
			{Ingredient: "tofu", Slug: "tofu", CompoundID: "isoflavone", MgPer100g: 25},
		},
		Factors: map[string][]CookingFactor{
			// 高溫會分解大蒜素；燉煮讓果聚醣部分溶出
			"roast": {{CompoundID: "allicin", Factor: 0.3}},
			"fry":   {{CompoundID: "allicin", Factor: 0.5}, {CompoundID: "quercetin", Factor: 0.8}},
			"boil":  {{CompoundID: "fructan", Factor: 0.7}, {CompoundID: "oxalate", Factor: 0.6}, {CompoundID: "caffeine", Factor: 1.0}},
			"steam": {{CompoundID: "oxalate", Factor: 0.85}},
		},
		Edges: []OrganEdge{
			{CompoundID: "allicin", OrganID: "gut", Sign: 1, Strength: 2, Evidence: "antimicrobial, heuristic"},
			{CompoundID: "allicin", OrganID: "heart", Sign: 1, Strength: 1.5, Evidence: "lipid profile, heuristic"},
			{CompoundID: "fructan", OrganID: "gut", Sign: -1, Strength: 2, Evidence: "FODMAP fermentation"},
			{CompoundID: "quercetin", OrganID: "heart", Sign: 1, Strength: 1, Evidence: "antioxidant, heuristic"},
			{CompoundID: "histamine", OrganID: "gut", Sign: -1, Strength: 3, Evidence: "histamine intolerance"},
			{CompoundID: "histamine", OrganID: "skin", Sign: -1, Strength: 2, Evidence: "flushing, heuristic"},
			{CompoundID: "lactose", OrganID: "gut", Sign: -1, Strength: 1.5, Evidence: "lactose malabsorption"},
			{CompoundID: "saturated_fat", OrganID: "heart", Sign: -1, Strength: 2, Evidence: "LDL, heuristic"},
			{CompoundID: "omega3", OrganID: "heart", Sign: 1, Strength: 3, Evidence: "EPA/DHA"},
			{CompoundID: "omega3", OrganID: "brain", Sign: 1, Strength: 2, Evidence: "DHA, heuristic"},
			{CompoundID: "caffeine", OrganID: "brain", Sign: 1, Strength: 1, Evidence: "alertness"},
			{CompoundID: "caffeine", OrganID: "heart", Sign: -1, Strength: 0.5, Evidence: "acute BP, heuristic"},
			{CompoundID: "ethanol", OrganID: "liver", Sign: -1, Strength: 4, Evidence: "hepatotoxicity"},
			{CompoundID: "ethanol", OrganID: "brain", Sign: -1, Strength: 2, Evidence: "CNS depressant"},
			{CompoundID: "resveratrol", OrganID: "heart", Sign: 1, Strength: 0.5, Evidence: "weak evidence"},
			{CompoundID: "gluten_protein", OrganID: "gut", Sign: -1, Strength: 1, Evidence: "sensitivity proxy"},
			{CompoundID: "oxalate", OrganID: "kidney", Sign: -1, Strength: 2, Evidence: "stone formation"},
			{CompoundID: "lutein", OrganID: "brain", Sign: 1, Strength: 0.5, Evidence: "weak evidence"},
			{CompoundID: "isoflavone", OrganID: "heart", Sign: 1, Strength: 1, Evidence: "heuristic"},
		},
		Organs: []string{"gut", "heart", "liver", "kidney", "brain", "skin"},
		CompoundNames: map[string]string{
			"allicin":        "Allicin",
			"fructan":        "Fructan",
			"quercetin":      "Quercetin",
			"histamine":      "Histamine",
			"lactose":        "Lactose",
			"saturated_fat":  "Saturated fat",
			"omega3":         "Omega-3 fatty acids",
			"caffeine":       "Caffeine",
			"ethanol":        "Ethanol",
			"resveratrol":    "Resveratrol",
			"gluten_protein": "Gluten protein",
			"oxalate":        "Oxalate",
			"lutein":         "Lutein",
			"isoflavone":     "Isoflavone",
		},
		Lexicon: []lexicon.Entry{
			{Canonical: "whole milk", Terms: []string{"whole milk", "milk"}, Classes: []string{"dairy"}, Allergens: []string{"milk"}, Fodmap: lexicon.FodmapHigh, Weight: 5, Source: "curated"},
			{Canonical: "parmesan", Terms: []string{"parmesan", "parmigiano"}, Classes: []string{"dairy"}, Tags: []string{"aged"}, Allergens: []string{"milk"}, Fodmap: lexicon.FodmapLow, Weight: 6, Source: "curated"},
			{Canonical: "cream", Terms: []string{"cream", "heavy cream"}, Classes: []string{"dairy"}, Allergens: []string{"milk"}, Fodmap: lexicon.FodmapMedium, Weight: 4},
			{Canonical: "butter", Terms: []string{"butter"}, Classes: []string{"dairy"}, Allergens: []string{"milk"}, Fodmap: lexicon.FodmapLow, Weight: 4},
			{Canonical: "garlic", Terms: []string{"garlic"}, Classes: []string{"allium"}, Fodmap: lexicon.FodmapHigh, Weight: 6, Source: "curated"},
			{Canonical: "onion", Terms: []string{"onion", "shallot"}, Classes: []string{"allium"}, Fodmap: lexicon.FodmapHigh, Weight: 5},
			{Canonical: "wheat flour", Terms: []string{"wheat flour", "wheat", "flour"}, Classes: []string{"gluten"}, Allergens: []string{"wheat", "gluten"}, Fodmap: lexicon.FodmapMedium, Weight: 5},
			{Canonical: "shrimp", Terms: []string{"shrimp", "prawn"}, Classes: []string{"shellfish"}, Allergens: []string{"shellfish"}, Fodmap: lexicon.FodmapLow, Weight: 5},
			{Canonical: "salmon", Terms: []string{"salmon"}, Classes: []string{"fish"}, Allergens: []string{"fish"}, Fodmap: lexicon.FodmapLow, Weight: 5},
			{Canonical: "tofu", Terms: []string{"tofu"}, Classes: []string{"soy"}, Allergens: []string{"soy"}, Fodmap: lexicon.FodmapLow, Weight: 4},
			{Canonical: "egg", Terms: []string{"egg", "eggs"}, Classes: []string{"egg"}, Allergens: []string{"egg"}, Fodmap: lexicon.FodmapLow, Weight: 4},
			{Canonical: "tahini", Terms: []string{"tahini", "sesame"}, Allergens: []string{"sesame"}, Fodmap: lexicon.FodmapLow, Weight: 4},
			{Canonical: "peanut", Terms: []string{"peanut", "peanuts"}, Allergens: []string{"peanut"}, Fodmap: lexicon.FodmapLow, Weight: 5},
			{Canonical: "walnut", Terms: []string{"walnut", "almond", "cashew", "hazelnut"}, Allergens: []string{"tree_nut"}, Fodmap: lexicon.FodmapLow, Weight: 5},
			{Canonical: "mustard", Terms: []string{"mustard"}, Allergens: []string{"mustard"}, Weight: 3},
			{Canonical: "celery", Terms: []string{"celery"}, Allergens: []string{"celery"}, Fodmap: lexicon.FodmapLow, Weight: 3},
			{Canonical: "mussel", Terms: []string{"mussel", "clam", "oyster", "squid"}, Allergens: []string{"mollusc"}, Weight: 5},
			{Canonical: "red wine", Terms: []string{"red wine", "wine"}, Tags: []string{"alcohol"}, Allergens: []string{"sulphite"}, Fodmap: lexicon.FodmapLow, Weight: 4},
		},
		Prefs: map[string]*prefs.UserPrefs{},
	}
}
