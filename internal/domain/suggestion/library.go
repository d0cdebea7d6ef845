package suggestion

// destinationPlaceholder is substituted with the destination name in activity templates.
const destinationPlaceholder = "{destination}"

var activityLibrary = map[Tag][]string{
	TagAny: {
		"Wander through the busiest bazaar in {destination} and snack as you go",
		"Book a heritage walk with a local guide",
		"Catch the sunset from a well-known viewpoint",
		"Reserve a table at a restaurant locals recommend",
		"Get lost in a quiet residential lane away from the tourist trail",
		"Spend an hour at a gallery or cultural centre",
		"Do an evening food trail through the old quarter",
		"Slow down at a café and sketch out tomorrow",
		"Sign up for a cooking class or craft workshop",
		"Stroll the main promenade of {destination} after dinner",
	},
	TagClear: {
		"Head out at dawn for a run or walk in the largest park",
		"Watch the sunrise over {destination} from high ground",
		"Take an open-air city tour around {destination}",
		"Join a golden-hour photography walk",
		"Have a drink on a rooftop overlooking {destination}",
		"Hop between street-food stalls once the sun sets",
	},
	TagCloudy: {
		"Photograph the historic centre of {destination} in the soft light",
		"Walk the lakeside or riverside path",
		"Try two or three independent coffee shops",
		"Ride a local bus end to end to see everyday life",
	},
	TagRainy: {
		"Spend the morning in the city museum",
		"Browse a covered market or mall for a few hours",
		"Settle into a café with books or board games",
		"Catch a film at a local cinema",
		"Graze your way through an indoor food court",
		"Visit a famous temple, church or mosque a short cab ride away",
	},
	TagCold: {
		"Take a short scenic walk, then warm up with tea",
		"Look for an indoor observatory or viewing gallery",
		"Order a bowl of the local winter speciality",
		"Shop for woollens in a covered market",
	},
	TagHot: {
		"Get your outdoor sightseeing done before ten",
		"Sit out the midday heat somewhere air-conditioned",
		"Walk by the water in the cooler evening",
		"Find the most popular ice-cream or kulfi counter",
	},
	TagSnowy: {
		"Go on a guided snow walk around {destination} with proper gear",
		"Photograph the snowfields from a lookout point",
		"Warm up with hot chocolate at a mountain café",
		"See an indoor folk performance in the evening",
	},
	TagStormy: {
		"Keep to indoor plans at a cosy café or co-working space",
		"Pick an indoor attraction a short taxi ride away",
		"Linger over a long lunch somewhere well reviewed",
		"Rest at the hotel and map out the remaining days",
	},
}

// packingGroup holds the candidate items for one packing category.
type packingGroup struct {
	name  string
	base  []string
	cold  []string
	hot   []string
	rainy []string
	any   []string
}

// maxItemsPerCategory caps how many items the local generator returns per category.
const maxItemsPerCategory = 10

func packingLibrary(days, travelers int) []packingGroup {
	return []packingGroup{
		{
			name: "Clothing",
			base: []string{
				itoa(days) + "x everyday T-shirts",
				itoa(max(2, (days+1)/2)) + "x trousers or jeans",
				itoa(max(2, days)) + "x socks and underwear",
				"Broken-in walking shoes",
				"Sleepwear",
			},
			cold:  []string{"Insulated jacket or fleece", "Thermal base layers", "Woollen cap", "Gloves and thick socks"},
			hot:   []string{"Loose cotton shirts", "Shorts or linen trousers", "Wide-brimmed hat or cap"},
			rainy: []string{"Packable rain jacket", "Quick-drying clothes", "Waterproof sandals"},
		},
		{
			name: "Toiletries",
			base: []string{
				"Toothbrush and toothpaste",
				"Face wash and moisturiser",
				"Deodorant",
				"Comb or hairbrush",
				"Travel-size shampoo",
				"Soap or shower gel",
			},
			hot:  []string{"Sunscreen SPF 50", "After-sun gel"},
			cold: []string{"Lip balm", "Rich moisturiser for dry air"},
		},
		{
			name: "Documents & Money",
			base: []string{
				"Photo ID or passport",
				"Tickets and booking confirmations",
				"Cards and some cash",
				"Backup cash stored separately",
				"Travel insurance details",
			},
		},
		{
			name: "Electronics",
			base: []string{
				"Phone and charger",
				"Power bank",
				"Earphones",
				"Plug adapter",
				"Spare charging cables",
			},
			any: []string{"Camera with a spare battery"},
		},
		{
			name: "Health & Safety",
			base: []string{
				"Basic medicines for fever, cold and stomach upsets",
				"Personal prescriptions",
				"Small first-aid kit",
				"Refillable water bottle",
				"Hand sanitiser and wet wipes",
				"Pocket tissues",
			},
			rainy: []string{"Compact umbrella"},
			hot:   []string{"Oral rehydration sachets"},
		},
		{
			name: "Extras (Optional)",
			base: []string{
				"Daypack for outings",
				"Sunglasses",
				"Foldable shopping bag",
				"Notebook and pen",
				"Snacks for " + itoa(travelers) + " traveler(s)",
			},
		},
	}
}
