package overlaystat

// getBufFromPool mengambil buffer dari pool atau membuat baru jika tidak tersedia.
// Ukuran buffer selalu s.codec.size byte.
func (s *Store) getBufFromPool() []byte {
	if s.bufPool != nil {
		return s.bufPool.Get().([]byte)
	}
	return make([]byte, s.codec.size)
}

// returnBufToPool mengembalikan buffer ke pool untuk digunakan kembali.
// Hanya buffer dengan ukuran tepat yang akan dimasukkan kembali ke pool.
func (s *Store) returnBufToPool(buf []byte) {
	if s.bufPool != nil && len(buf) == s.codec.size {
		s.bufPool.Put(buf)
	}
}
