package taxonomy

const (
	fiction    = "Fiction"
	nonFiction = "Non-Fiction"
	children   = "Children"
	comics     = "Comics & Graphic Novels"
	reference  = "Reference"
)

// subjectPriority orders categories when several subject tags compete.
// Non-fiction wins over fiction because bibliographic subjects for
// non-fiction titles are usually precise.
var subjectPriority = map[string]int{
	nonFiction: 1,
	fiction:    2,
	children:   3,
	comics:     4,
	reference:  5,
}

func sub(name string, aliases ...string) SubGenre {
	return SubGenre{Name: name, Aliases: aliases}
}

func at(category, subGenre string) Placement {
	return Placement{Category: category, SubGenre: subGenre}
}

var builtinCategories = []Category{
	{Name: fiction, SubGenres: []SubGenre{
		sub("Fantasy",
			"fantasy", "fantasy fiction", "epic fantasy", "urban fantasy", "high fantasy",
			"dark fantasy", "sword and sorcery", "mythic fiction", "fantasy, epic",
			"fiction, fantasy, epic", "fiction, fantasy, general", "fantastic fiction",
			"english fantasy fiction", "magic", "wizards", "dragons"),
		sub("Science Fiction",
			"science fiction", "sci-fi", "sf", "scifi", "speculative fiction",
			"cyberpunk", "space opera", "dystopian", "post-apocalyptic",
			"fiction, science fiction", "science fiction, general"),
		sub("Mystery & Thriller",
			"mystery", "thriller", "suspense", "crime", "detective",
			"crime fiction", "noir", "psychological thriller", "legal thriller",
			"mystery and detective stories", "crime & mystery", "thrillers",
			"detective and mystery stories", "murder", "mystery fiction"),
		sub("Horror",
			"horror", "gothic", "supernatural", "dark fiction", "ghost stories",
			"horror fiction", "horror tales", "occult fiction"),
		sub("Romance",
			"romance", "romantic fiction", "love story", "romantic suspense",
			"historical romance", "contemporary romance", "love", "romance fiction"),
		sub("Historical Fiction",
			"historical fiction", "historical novel", "historical",
			"fiction, historical", "history fiction"),
		sub("Literary",
			"literary fiction", "literary", "classic", "classics", "classic fiction",
			"literature", "fiction in english", "english fiction", "english literature",
			"american fiction", "american literature", "contemporary fiction",
			"modern fiction", "novel", "novels", "general fiction", "fiction"),
		sub("Humor",
			"humor", "humour", "comedy", "satire", "humorous fiction",
			"wit and humor", "humorous stories"),
		sub("Adventure",
			"adventure", "action", "action adventure", "adventure fiction",
			"adventure stories", "sea stories", "war stories"),
		sub("Short Stories",
			"short stories", "short fiction", "anthology", "collected stories",
			"short stories, english", "fiction, anthologies"),
		sub("Drama",
			"drama", "plays", "family saga", "domestic fiction", "theatrical"),
		sub("Poetry",
			"poetry", "poems", "verse", "poetic works", "english poetry",
			"american poetry"),
		sub("Young Adult Fiction",
			"young adult fiction", "ya fiction", "teen fiction", "teenage",
			"coming of age", "juvenile fiction", "children's fiction"),
		sub(Other),
	}},
	{Name: nonFiction, SubGenres: []SubGenre{
		sub("Biography & Memoir",
			"biography", "autobiography", "memoir", "memoirs", "biographical",
			"life story", "personal narrative", "biography & autobiography",
			"biographies", "personal memoirs"),
		sub("History",
			"history", "historical", "ancient history", "world history",
			"military history", "cultural history", "medieval history", "modern history",
			"ancient civilization", "archaeology", "world war", "wars",
			"history, general", "united states history", "european history",
			"indian history", "asian history"),
		sub("Science & Technology",
			"science", "physics", "chemistry", "biology", "astronomy",
			"natural science", "earth science", "environmental science",
			"popular science", "mathematics", "math", "maths",
			"technology", "computer science", "programming", "engineering",
			"artificial intelligence", "software", "electronics", "computers",
			"technology & engineering", "science, general"),
		sub("Business & Finance",
			"business", "economics", "finance", "management", "entrepreneurship",
			"investing", "marketing", "leadership", "money", "business & economics",
			"success in business", "business success", "commerce"),
		sub("Self-Help",
			"self-help", "self help", "personal development", "motivation",
			"self improvement", "self-improvement", "productivity", "success", "habits",
			"self-actualization", "self-culture", "conduct of life", "inspiration"),
		sub("Philosophy & Religion",
			"philosophy", "philosophical", "ethics", "logic", "metaphysics",
			"existentialism", "stoicism", "religion", "spirituality", "spiritual",
			"theology", "mysticism", "meditation", "yoga", "mythology",
			"vedanta", "hinduism", "buddhism", "islam", "christianity",
			"religious aspects", "philosophy, general"),
		sub("Psychology",
			"psychology", "psychiatry", "mental health", "cognitive science",
			"behavioral science", "psychoanalysis", "neuroscience",
			"psychology, general", "psychological aspects"),
		sub("Politics & Society",
			"politics", "political science", "sociology", "social science",
			"current affairs", "government", "international relations",
			"anthropology", "cultural studies", "social life and customs",
			"politics and government"),
		sub("Arts & Entertainment",
			"art", "music", "fine arts", "art history", "photography",
			"architecture", "design", "film", "cinema", "performing arts",
			"art instruction", "graphic design", "dance", "fashion",
			"painting", "music theory"),
		sub("Health & Wellness",
			"health", "fitness", "medicine", "nutrition", "diet",
			"exercise", "wellness", "medical", "cooking", "cookbooks",
			"mental health", "health & fitness"),
		sub("Travel & Culture",
			"travel", "geography", "culture", "tourism", "exploration",
			"travel writing", "voyages and travels"),
		sub("Essays & Criticism",
			"essays", "essay", "collected essays", "literary criticism",
			"criticism", "literary essays", "book reviews"),
		sub(Other),
	}},
	{Name: children, SubGenres: []SubGenre{
		sub("Picture Books",
			"picture book", "picture books", "baby books", "infancy",
			"bedtime", "bedtime stories", "stories in rhyme"),
		sub("Stories",
			"children's fiction", "children's stories", "children's literature",
			"fairy tales", "fables", "juvenile literature", "kids books"),
		sub("Educational",
			"children's educational", "educational", "learning",
			"young readers nonfiction", "children's nonfiction", "juvenile nonfiction"),
		sub("Young Adult",
			"young adult", "ya", "teen", "teenage", "young adult fiction",
			"coming of age"),
		sub(Other),
	}},
	{Name: comics, SubGenres: []SubGenre{
		sub("Graphic Novels",
			"graphic novel", "graphic novels", "comics", "comic book",
			"sequential art", "comic books, strips, etc"),
		sub("Manga",
			"manga", "anime", "japanese comics", "manhwa", "manhua"),
		sub("Indian Comics",
			"indian comics", "amar chitra katha", "panchatantra",
			"indian mythology comics"),
		sub("Superheroes",
			"superheroes", "superhero comics", "marvel", "dc comics"),
		sub(Other),
	}},
	{Name: reference, SubGenres: []SubGenre{
		sub("Encyclopedias",
			"encyclopedia", "encyclopaedia", "encyclopedias", "dictionaries"),
		sub("Textbooks",
			"textbook", "textbooks", "academic", "coursebook", "study guide",
			"educational material", "course material"),
		sub("Guides & Handbooks",
			"handbook", "guide", "reference", "manual", "how-to",
			"almanac", "atlas", "dictionary"),
		sub(Other),
	}},
}

// Folder names are compared lower-cased; order matters for containment
// matches, so longer names precede the shorter names they contain.
var builtinFolderRules = []FolderRule{
	{"amar chitra katha", at(comics, "Indian Comics")},
	{"indian comics", at(comics, "Indian Comics")},
	{"panchatantra", at(comics, "Indian Comics")},
	{"comics", at(comics, "Graphic Novels")},
	{"graphic novels", at(comics, "Graphic Novels")},
	{"manga", at(comics, "Manga")},

	{"historic rare", at(nonFiction, "History")},
	{"history", at(nonFiction, "History")},
	{"indian history", at(nonFiction, "History")},

	{"j krishnamurthi", at(nonFiction, "Philosophy & Religion")},
	{"j krishnamurti", at(nonFiction, "Philosophy & Religion")},
	{"ayn rand", at(nonFiction, "Philosophy & Religion")},
	{"philosophy", at(nonFiction, "Philosophy & Religion")},
	{"osho", at(nonFiction, "Philosophy & Religion")},
	{"spirituality", at(nonFiction, "Philosophy & Religion")},
	{"vedanta", at(nonFiction, "Philosophy & Religion")},
	{"religion", at(nonFiction, "Philosophy & Religion")},

	{"tell me why", at(children, "Educational")},
	{"how it works", at(nonFiction, "Science & Technology")},
	{"kids", at(children, "Stories")},
	{"children", at(children, "Stories")},

	{"science fiction", at(fiction, "Science Fiction")},
	{"sci-fi", at(fiction, "Science Fiction")},
	{"science", at(nonFiction, "Science & Technology")},
	{"programming", at(nonFiction, "Science & Technology")},
	{"technology", at(nonFiction, "Science & Technology")},
	{"vedic maths", at(nonFiction, "Science & Technology")},
	{"vedic math", at(nonFiction, "Science & Technology")},

	{"fiction", at(fiction, "Literary")},
	{"novels", at(fiction, "Literary")},
	{"fantasy", at(fiction, "Fantasy")},
	{"mystery", at(fiction, "Mystery & Thriller")},
	{"thriller", at(fiction, "Mystery & Thriller")},
	{"crime", at(fiction, "Mystery & Thriller")},
	{"romance", at(fiction, "Romance")},
	{"horror", at(fiction, "Horror")},
	{"adventure", at(fiction, "Adventure")},
	{"poetry", at(fiction, "Poetry")},

	{"autobiography", at(nonFiction, "Biography & Memoir")},
	{"biography", at(nonFiction, "Biography & Memoir")},
	{"biographies", at(nonFiction, "Biography & Memoir")},

	{"business", at(nonFiction, "Business & Finance")},
	{"finance", at(nonFiction, "Business & Finance")},
	{"self-help", at(nonFiction, "Self-Help")},
	{"self help", at(nonFiction, "Self-Help")},

	{"art", at(nonFiction, "Arts & Entertainment")},
	{"music", at(nonFiction, "Arts & Entertainment")},

	{"textbooks", at(reference, "Textbooks")},
	{"encyclopedia", at(reference, "Encyclopedias")},
}

var builtinKeywordRules = []KeywordRule{
	{at(fiction, "Science Fiction"), []string{"sci-fi", "starship", "alien invasion", "space station"}},
	{at(fiction, "Fantasy"), []string{"sword and sorcery", "epic fantasy", "dark lord"}},
	{at(fiction, "Mystery & Thriller"), []string{"murder mystery", "detective story", "whodunit"}},
	{at(fiction, "Horror"), []string{"horror stories", "haunted house", "supernatural horror"}},
	{at(nonFiction, "History"), []string{"world history", "ancient history", "military history"}},
	{at(nonFiction, "Biography & Memoir"), []string{"biography of", "life of", "autobiography of"}},
	{at(nonFiction, "Philosophy & Religion"), []string{"philosophy of", "ethics of"}},
	{at(nonFiction, "Science & Technology"), []string{"introduction to physics", "chemistry basics"}},
	{at(nonFiction, "Self-Help"), []string{"how to succeed", "self improvement"}},
	{at(nonFiction, "Business & Finance"), []string{"business strategy", "financial planning"}},
	{at(children, "Educational"), []string{"tell me why", "how it works", "for kids"}},
	{at(children, "Stories"), []string{"childrens", "children's", "fairy tales"}},
	{at(comics, "Indian Comics"), []string{"amar chitra katha", "panchatantra tales"}},
}

// Builtin returns the default library taxonomy with its folder and title
// keyword rules.
func Builtin() *Taxonomy {
	return MustNew(builtinCategories,
		WithFolderRules(builtinFolderRules...),
		WithKeywordRules(builtinKeywordRules...),
	)
}
