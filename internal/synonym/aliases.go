package synonym

// DefaultAliases returns the built-in compound alias dictionary covering
// the compound families this service is typically asked about: SARMs,
// peptides, nootropics (chemical name to common name), and common
// supplements. Callers may pass their own dictionary to New instead.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		// SARMs
		"RAD-140":   {"Testolone", "RAD140", "RAD 140", "Vosilasarm"},
		"LGD-4033":  {"Ligandrol", "LGD4033", "LGD 4033", "VK5211"},
		"MK-2866":   {"Ostarine", "Enobosarm", "GTx-024", "MK2866"},
		"S-4":       {"Andarine", "S4", "GTx-007"},
		"GW-501516": {"Cardarine", "GW501516", "GW 501516", "Endurobol"},
		"MK-677":    {"Ibutamoren", "Nutrobal", "MK677", "L-163191"},
		"SR9009":    {"Stenabolic", "SR-9009", "SR 9009"},
		"YK-11":     {"YK11", "YK 11"},
		"S-23":      {"S23", "S 23"},
		"LGD-3303":  {"LGD3303", "LGD 3303"},

		// Peptides
		"BPC-157":      {"Body Protection Compound", "Pentadecapeptide BPC 157", "BPC157", "BPC 157"},
		"TB-500":       {"Thymosin Beta-4", "Tβ4", "TB500", "Thymosin β4"},
		"CJC-1295":     {"CJC1295", "CJC 1295", "Modified GRF 1-29"},
		"Ipamorelin":   {"NNC 26-0161", "Ipamorelin acetate"},
		"GHRP-6":       {"Growth Hormone Releasing Peptide-6", "GHRP6"},
		"GHRP-2":       {"Growth Hormone Releasing Peptide-2", "GHRP2"},
		"Sermorelin":   {"GRF 1-29", "GHRH 1-29", "Growth Hormone Releasing Hormone"},
		"PT-141":       {"Bremelanotide", "PT141", "PT 141"},
		"Melanotan II": {"MT-II", "MT2", "Melanotan 2"},
		"Hexarelin":    {"Examorelin", "L-692429"},
		"AOD-9604":     {"AOD9604", "hGH Fragment 176-191"},
		"MGF":          {"Mechano Growth Factor", "IGF-1Ec"},
		"PEG-MGF":      {"Pegylated Mechano Growth Factor"},
		"Follistatin":  {"FST", "Activin-binding Protein"},
		"ACE-031":      {"Myostatin Inhibitor", "ACVR2B"},
		"Epitalon":     {"Epithalon", "Alanyl-glutamyl-aspartyl-glycine"},
		"GHK-Cu":       {"Copper Peptide", "Gly-His-Lys-Cu", "GHK Copper"},

		// Nootropics, chemical name to common name
		"2-oxo-1-pyrrolidine acetamide":                              {"Piracetam", "Nootropil"},
		"1-(4-methoxybenzoyl)-2-pyrrolidinone":                       {"Aniracetam", "Draganon"},
		"4-hydroxy-2-oxopyrrolidine-N-acetamide":                     {"Oxiracetam", "Neuractiv"},
		"2-[(diphenylmethyl)sulfinyl]acetamide":                      {"Modafinil", "Provigil"},
		"N-[2-(diisopropylamino)ethyl]-2-oxo-1-pyrrolidineacetamide": {"Pramiracetam"},
		"4-phenyl-2-oxopyrrolidine-1-acetamide":                      {"Phenylpiracetam", "Carphedon"},
		"2-benzhydrylsulfinyl-N-hydroxyacetamide":                    {"Adrafinil", "Olmifon"},
		"bisfluoromodafinil":                                         {"Flmodafinil", "CRL-40,940"},
		"1-benzoyl-4-propanoylpiperazine":                            {"Sunifiram", "DM-235"},
		"L-Alpha glycerylphosphorylcholine":                          {"Alpha-GPC", "Choline Alfoscerate"},
		"Cytidine 5-diphosphocholine":                                {"CDP-Choline", "Citicoline"},
		"2-(Dimethylamino)ethanol":                                   {"DMAE", "Dimethylaminoethanol"},
		"4-amino-3-phenylbutyric acid":                               {"Phenibut", "β-phenyl-GABA"},
		"Nicotinoyl-GABA":                                            {"Picamilon", "Pikamilon"},

		// Common supplements
		"Creatine Monohydrate": {"Creatine", "N-methylguanidino acetic acid"},
		"Beta-Alanine":         {"β-Alanine", "3-aminopropanoic acid"},
		"L-Citrulline":         {"Citrulline", "2-Amino-5-(carbamoylamino)pentanoic acid"},
		"Ashwagandha":          {"Withania somnifera", "Indian Winter Cherry"},
		"Rhodiola Rosea":       {"Golden Root", "Arctic Root", "Rose Root"},
		"Bacopa Monnieri":      {"Brahmi", "Water Hyssop"},
		"Lion's Mane":          {"Hericium erinaceus", "Bearded Tooth Mushroom"},
	}
}
