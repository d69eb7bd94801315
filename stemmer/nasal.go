package stemmer

// recoverOnset undoes the nasal assimilation a me-/pe- variant applies
// to the first sound of the root. With the prefix already removed,
// rest is the remaining material and r the rule that matched.
//
// Three outcomes, decided by the phonological class of rest's first
// letter:
//
//   - retained onset: the letter belongs to the variant's onset class
//     and survived prefixation (menggambar -> gambar, mentadbir ->
//     tadbir). Nothing to restore. A letter equal to the assimilated
//     consonant itself is also left alone; surface forms like
//     memper- carry a following prefix, not a mutated root, and the
//     stripping loop deals with it on the next pass.
//   - vowel onset after meng-/peng-: vowels sit in the onset class, so
//     this is the retained case as well (mengukur -> ukur).
//   - assimilated onset: the letter is outside the onset class, which
//     means the real onset was swallowed by the nasal; reinsert it
//     (menulis -> t + ulis, memukul -> p + ukul, menyapu -> s + apu).
func recoverOnset(rest string, r prefixRule) string {
	if rest == "" {
		return rest
	}
	c := rest[0]
	for i := 0; i < len(r.onsets); i++ {
		if c == r.onsets[i] {
			return rest
		}
	}
	return string(r.drop) + rest
}
