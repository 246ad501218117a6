package service

// DefaultVocabulary is the built-in surgical instrument vocabulary
// (Portuguese catalog titles, with common English and vendor spellings).
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Synonyms: map[string][]string{
			// retractors
			"afastador":   {"afastadores", "afast", "retractor", "retrator", "afastado"},
			"senn":        {"sen", "semm", "senm"},
			"mueller":     {"muller", "muler", "mueler", "müller"},
			"farabeuf":    {"farabeaf", "farabef", "farabeuff"},
			"gelpi":       {"gelpe", "gelpy"},
			"weitlaner":   {"weitlaener", "weitlander", "weitlanner"},
			"volkmann":    {"volkman", "wolkmann"},
			"balfour":     {"balfur", "balfor"},
			"finochietto": {"finochieto", "finoquieto"},
			"gosset":      {"goset"},
			"deaver":      {"diver", "deever"},
			"doyen":       {"doien", "doyem"},
			// forceps and clamps
			"pinca":     {"pinça", "pincas", "pinças", "forceps"},
			"kelly":     {"kely", "kelli"},
			"kocher":    {"kocker", "kosher", "kocer"},
			"crile":     {"cryle", "kryle"},
			"allis":     {"alis", "allys", "alys"},
			"adson":     {"adison", "adsom"},
			"backhaus":  {"backaus", "bakaus", "backhauss"},
			"halsted":   {"halstead", "halsted mosquito"},
			"mosquito":  {"mosquitinho", "mosq"},
			"rochester": {"rochester pean", "rochest"},
			"pean":      {"peam"},
			"foerster":  {"foester", "forster", "föerster"},
			"cheron":    {"cheronn", "cherom"},
			"collin":    {"colin", "collins"},
			"debakey":   {"de bakey", "bakey"},
			"babcock":   {"babcok", "babckock"},
			"duval":     {"duvall"},
			"hartmann":  {"hartman"},
			"mixter":    {"mikster", "mixter reta"},
			"dissecao":  {"dissecção", "disseccao", "dissecacao", "dissecting"},
			"clamp":     {"clampe", "clamps"},
			// scissors, knives
			"tesoura":    {"tesouras", "scissors", "tes"},
			"metzenbaum": {"metzembaum", "metz", "metzenbaun"},
			"mayo":       {"maio", "mayo stille"},
			"iris":       {"íris"},
			"bisturi":    {"bisturis", "scalpel"},
			"lamina":     {"lâmina", "laminas", "lâminas", "blade"},
			// needle holders and misc
			"porta":       {"porta-agulha", "portagulha"},
			"agulha":      {"agulhas", "needle"},
			"hegar":       {"hegar mayo", "heggar"},
			"mathieu":     {"matheu", "mathieux"},
			"cureta":      {"curetas", "curette"},
			"cuba":        {"cubas", "bowl"},
			"rim":         {"rins", "rim cuba"},
			"espatula":    {"espátula", "spatula"},
			"tentacanula": {"tenta canula", "tenta-cânula"},
			"cabo":        {"handle", "cabos"},
			"suporte":     {"support", "suportes"},
			"descartavel": {"descartável", "descartaveis", "descartáveis", "desc", "disposable"},
			"reta":        {"reto", "straight"},
			"curva":       {"curvo", "curved", "cva"},
			"delicada":    {"delicado", "delic"},
			"inox":        {"aco inox", "aço inoxidável", "inoxidavel", "stainless"},
			"cm":          {"centimetro", "centimetros", "centímetros"},
			"mm":          {"milimetro", "milimetros", "milímetros"},
		},
		StopWords: []string{
			"a", "o", "as", "os", "de", "da", "do", "das", "dos", "e", "em", "no", "na",
			"para", "p", "com", "c", "sem", "s", "por", "ou", "tipo", "tam", "tamanho",
			"n", "nr", "num", "numero", "modelo", "mod", "ref",
			"un", "und", "unid", "unidade", "unidades", "pc", "pcs", "pecas", "peca",
			"cx", "caixa", "pct", "pacote", "kit", "jogo", "x",
			"cm", "mm", "m", "ml", "g", "mg",
			"for", "of", "the", "with",
		},
		Categories: []string{
			"afastador", "pinca", "tesoura", "bisturi", "lamina", "cureta", "porta", "agulha",
			"espatula", "tentacanula", "cuba", "bandeja", "canula", "sonda", "dilatador",
			"descolador", "elevador", "rugina", "osteotomo", "goiva", "martelo", "clamp",
			"aspirador", "estilete", "valva", "especulo", "saca", "bocado", "serra",
			"retractor", "forceps", "scissors", "scalpel",
		},
		Accessories: []string{
			"cabo", "suporte", "capa", "tampa", "estojo", "protetor", "adaptador",
			"handle", "support", "cover", "case",
		},
		Units: []string{"mm", "cm", "m", "ml", "l", "g", "mg", "fr", "f", "pol"},
	}
}
