package sport

// DefaultKeywords is the built-in keyword table, used when no override is
// configured. Sets are exact-string disjoint; overlapping substrings
// ("athletic" vs "athletics") are resolved by classification priority.
func DefaultKeywords() map[Sport][]string {
	return map[Sport][]string{
		Baseball: {
			"blue jays", "dodgers", "mariners", "braves", "cubs", "angels", "padres",
			"rangers", "phillies", "yankees", "white sox", "giants", "marlins",
			"athletics", "guardians", "orioles", "red sox", "astros", "rockies",
			"cardinals", "twins", "brewers", "tigers", "royals", "rays", "nationals",
			"mets", "pirates", "diamondbacks",
		},
		Soccer: {
			"united", "city", "arsenal", "chelsea", "liverpool", "tottenham", "brighton",
			"wolves", "wanderers", "forest", "leeds", "villa", "palace", "fulham", "bournemouth",
			"lyon", "rennais", "laval", "boulogne", "galaxy", "sounders", "real", "barcelona",
			"madrid", "atletico", "sevilla", "valencia", "betis", "sociedad", "athletic",
			"bayern", "dortmund", "leipzig", "leverkusen", "frankfurt", "stuttgart",
			"juventus", "milan", "inter", "napoli", "roma", "lazio", "fiorentina",
			"psg", "monaco", "marseille", "lille", "rennes", "nice",
		},
		Basketball: {
			"lakers", "warriors", "celtics", "heat", "bulls", "knicks", "nets", "suns", "mavs",
			"bucks", "sixers", "raptors", "pistons", "pacers", "cavaliers", "magic", "hawks",
			"hornets", "wizards", "nuggets", "trail blazers", "jazz", "thunder", "spurs",
			"rockets", "pelicans", "grizzlies", "timberwolves", "kings", "clippers",
		},
		Football: {
			"patriots", "bills", "dolphins", "jets", "ravens", "bengals", "browns", "steelers",
			"texans", "colts", "jaguars", "titans", "broncos", "chiefs", "raiders", "chargers",
			"cowboys", "eagles", "commanders", "bears", "lions", "packers", "vikings",
			"falcons", "panthers", "saints", "buccaneers", "rams", "seahawks", "49ers",
		},
		Hockey: {
			"maple leafs", "canadiens", "bruins", "oilers", "flames", "canucks",
			"avalanche", "golden knights", "islanders", "sabres", "blackhawks",
			"penguins", "flyers", "capitals", "hurricanes", "predators", "kraken",
		},
		Tennis: {
			"djokovic", "alcaraz", "sinner", "medvedev", "zverev", "tsitsipas",
			"swiatek", "sabalenka", "gauff", "rybakina",
		},
	}
}

// DefaultCombatNames are first-name tokens of individual fighters; a
// whole-token hit classifies the event as a combat sport.
func DefaultCombatNames() []string {
	return []string{"amanda", "tatiana", "keith", "devin", "fernando", "anthony", "stephen"}
}

// Default returns a classifier built from the built-in tables.
// The tables are known disjoint, so construction cannot fail.
func Default() *Classifier {
	c, err := NewClassifier(DefaultKeywords(), DefaultCombatNames())
	if err != nil {
		panic(err)
	}
	return c
}
