package quran

// SurahCount is the number of surahs in the mushaf.
const SurahCount = 114

// ayahCounts holds the ayah count per surah (Hafs numbering), indexed by
// surah number - 1.
var ayahCounts = [SurahCount]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}

// surahNames holds transliterated surah names, indexed by surah number - 1.
var surahNames = [SurahCount]string{
	"Al-Fatihah", "Al-Baqarah", "Ali 'Imran", "An-Nisa", "Al-Ma'idah",
	"Al-An'am", "Al-A'raf", "Al-Anfal", "At-Tawbah", "Yunus",
	"Hud", "Yusuf", "Ar-Ra'd", "Ibrahim", "Al-Hijr",
	"An-Nahl", "Al-Isra", "Al-Kahf", "Maryam", "Taha",
	"Al-Anbya", "Al-Hajj", "Al-Mu'minun", "An-Nur", "Al-Furqan",
	"Ash-Shu'ara", "An-Naml", "Al-Qasas", "Al-'Ankabut", "Ar-Rum",
	"Luqman", "As-Sajdah", "Al-Ahzab", "Saba", "Fatir",
	"Ya-Sin", "As-Saffat", "Sad", "Az-Zumar", "Ghafir",
	"Fussilat", "Ash-Shuraa", "Az-Zukhruf", "Ad-Dukhan", "Al-Jathiyah",
	"Al-Ahqaf", "Muhammad", "Al-Fath", "Al-Hujurat", "Qaf",
	"Adh-Dhariyat", "At-Tur", "An-Najm", "Al-Qamar", "Ar-Rahman",
	"Al-Waqi'ah", "Al-Hadid", "Al-Mujadila", "Al-Hashr", "Al-Mumtahanah",
	"As-Saf", "Al-Jumu'ah", "Al-Munafiqun", "At-Taghabun", "At-Talaq",
	"At-Tahrim", "Al-Mulk", "Al-Qalam", "Al-Haqqah", "Al-Ma'arij",
	"Nuh", "Al-Jinn", "Al-Muzzammil", "Al-Muddaththir", "Al-Qiyamah",
	"Al-Insan", "Al-Mursalat", "An-Naba", "An-Nazi'at", "'Abasa",
	"At-Takwir", "Al-Infitar", "Al-Mutaffifin", "Al-Inshiqaq", "Al-Buruj",
	"At-Tariq", "Al-A'la", "Al-Ghashiyah", "Al-Fajr", "Al-Balad",
	"Ash-Shams", "Al-Layl", "Ad-Duhaa", "Ash-Sharh", "At-Tin",
	"Al-'Alaq", "Al-Qadr", "Al-Bayyinah", "Az-Zalzalah", "Al-'Adiyat",
	"Al-Qari'ah", "At-Takathur", "Al-'Asr", "Al-Humazah", "Al-Fil",
	"Quraysh", "Al-Ma'un", "Al-Kawthar", "Al-Kafirun", "An-Nasr",
	"Al-Masad", "Al-Ikhlas", "Al-Falaq", "An-Nas",
}

// AyahCount returns the number of ayahs in the given surah, or 0 when the
// surah number is out of range.
func AyahCount(surah int) int {
	if surah < 1 || surah > SurahCount {
		return 0
	}
	return ayahCounts[surah-1]
}

// SurahName returns the transliterated name of the given surah, or "" when
// the surah number is out of range.
func SurahName(surah int) string {
	if surah < 1 || surah > SurahCount {
		return ""
	}
	return surahNames[surah-1]
}
