package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koperasi-web/internal/models"
)

// In-memory fakes over the store interfaces.

type fakePinjamanStore struct {
	byID    map[int]*models.Pinjaman
	nextID  int
	cairkan []int // installment IDs passed to the last Cairkan call
	jadwal  []models.Angsuran
}

func newFakePinjamanStore(pinjaman ...*models.Pinjaman) *fakePinjamanStore {
	s := &fakePinjamanStore{byID: make(map[int]*models.Pinjaman), nextID: 1000}
	for _, p := range pinjaman {
		s.byID[p.ID] = p
	}
	return s
}

func (s *fakePinjamanStore) FindByID(id int) (*models.Pinjaman, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "pinjaman", ID: id}
	}
	salinan := *p
	return &salinan, nil
}

func (s *fakePinjamanStore) FindByNoPinjaman(no string) (*models.Pinjaman, error) {
	for _, p := range s.byID {
		if p.NoPinjaman == no {
			salinan := *p
			return &salinan, nil
		}
	}
	return nil, &models.NotFoundError{Entity: "pinjaman", ID: 0}
}

func (s *fakePinjamanStore) FindByAnggotaAndStatus(anggotaID int, status string) ([]models.Pinjaman, error) {
	var out []models.Pinjaman
	for _, p := range s.byID {
		if p.AnggotaID == anggotaID && p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePinjamanStore) Create(p *models.Pinjaman) error {
	s.nextID++
	p.ID = s.nextID
	salinan := *p
	s.byID[p.ID] = &salinan
	return nil
}

func (s *fakePinjamanStore) Update(p *models.Pinjaman) error {
	salinan := *p
	s.byID[p.ID] = &salinan
	return nil
}

func (s *fakePinjamanStore) Cairkan(p *models.Pinjaman, angsuranIDs []int, keterangan string, jadwal []models.Angsuran) error {
	salinan := *p
	s.byID[p.ID] = &salinan
	s.cairkan = angsuranIDs
	s.jadwal = jadwal
	return nil
}

type fakeAngsuranStore struct {
	byID map[int]*models.Angsuran
}

func newFakeAngsuranStore(angsuran ...*models.Angsuran) *fakeAngsuranStore {
	s := &fakeAngsuranStore{byID: make(map[int]*models.Angsuran)}
	for _, a := range angsuran {
		s.byID[a.ID] = a
	}
	return s
}

func (s *fakeAngsuranStore) FindByID(id int) (*models.Angsuran, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "angsuran", ID: id}
	}
	salinan := *a
	return &salinan, nil
}

func (s *fakeAngsuranStore) FindByIDs(ids []int) ([]models.Angsuran, error) {
	var out []models.Angsuran
	seen := make(map[int]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := s.byID[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAngsuranStore) FindByPinjaman(pinjamanID int) ([]models.Angsuran, error) {
	var out []models.Angsuran
	for _, a := range s.byID {
		if a.PinjamanID == pinjamanID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAngsuranStore) FindByPinjamanAndBulan(pinjamanID, bulanKe int) (*models.Angsuran, error) {
	for _, a := range s.byID {
		if a.PinjamanID == pinjamanID && a.BulanKe == bulanKe {
			salinan := *a
			return &salinan, nil
		}
	}
	return nil, &models.NotFoundError{Entity: "angsuran", ID: 0}
}

func (s *fakeAngsuranStore) FindTerpotongOleh(pinjamanID int, noPinjaman string) ([]models.Angsuran, error) {
	var out []models.Angsuran
	for _, a := range s.byID {
		if a.DilunasiOlehPinjamanID.Valid && int(a.DilunasiOlehPinjamanID.Int64) == pinjamanID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAngsuranStore) FindBelumBayarByAnggota(anggotaID int) ([]models.Angsuran, error) {
	return nil, nil
}

func (s *fakeAngsuranStore) Bayar(id int, tanggal time.Time, metode, keterangan string) (bool, error) {
	a, ok := s.byID[id]
	if !ok || a.Status != models.AngsuranBelumBayar {
		return false, nil
	}
	a.Status = models.AngsuranLunas
	a.TanggalBayar = &tanggal
	return true, nil
}

func (s *fakeAngsuranStore) CountBelumBayar(pinjamanID int) (int, error) {
	n := 0
	for _, a := range s.byID {
		if a.PinjamanID == pinjamanID && a.Status == models.AngsuranBelumBayar {
			n++
		}
	}
	return n, nil
}

type fakeAnggotaStore struct {
	byID map[int]*models.Anggota
}

func (s *fakeAnggotaStore) FindByID(id int) (*models.Anggota, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "anggota", ID: id}
	}
	return a, nil
}

func newLoanServiceForTest(pinjaman *fakePinjamanStore, angsuran *fakeAngsuranStore, anggota *fakeAnggotaStore) *LoanService {
	log := testLogger()
	return NewLoanService(pinjaman, angsuran, anggota, NewNettingEngine(5000, log), 5000, log)
}

func anggotaAktif(id int) *fakeAnggotaStore {
	return &fakeAnggotaStore{byID: map[int]*models.Anggota{
		id: {ID: id, Nama: "Budi", Status: models.AnggotaAktif},
	}}
}

func TestAjukanPinjaman(t *testing.T) {
	t.Run("pengajuan tercatat tanpa bunga terkonfigurasi", func(t *testing.T) {
		pinjamanStore := newFakePinjamanStore()
		svc := newLoanServiceForTest(pinjamanStore, newFakeAngsuranStore(), anggotaAktif(1))

		p, err := svc.AjukanPinjaman(models.PengajuanPinjamanRequest{AnggotaID: 1, Jumlah: 5_000_000, Tenor: 12})
		require.NoError(t, err)

		assert.Equal(t, models.PinjamanPengajuan, p.Status)
		assert.Equal(t, int64(5_000_000), p.JumlahPengajuan)
		assert.Equal(t, int64(5_000_000), p.JumlahPinjaman)
		assert.Empty(t, p.JenisBunga)
		assert.NotEmpty(t, p.NoPinjaman)
	})

	t.Run("anggota nonaktif ditolak", func(t *testing.T) {
		anggota := &fakeAnggotaStore{byID: map[int]*models.Anggota{
			1: {ID: 1, Status: models.AnggotaNonAktif},
		}}
		svc := newLoanServiceForTest(newFakePinjamanStore(), newFakeAngsuranStore(), anggota)

		_, err := svc.AjukanPinjaman(models.PengajuanPinjamanRequest{AnggotaID: 1, Jumlah: 1_000_000, Tenor: 6})
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestSetujui(t *testing.T) {
	t.Run("bunga belum dikonfigurasi memblokir persetujuan", func(t *testing.T) {
		p := &models.Pinjaman{ID: 1, AnggotaID: 1, Status: models.PinjamanPengajuan, JumlahPinjaman: 1_000_000, Tenor: 12}
		svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(), anggotaAktif(1))

		_, err := svc.Setujui(1, 1_000_000, "admin")
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "jenis_bunga", ve.Field)
	})

	t.Run("persetujuan mengunci jumlah dan stempel admin", func(t *testing.T) {
		p := &models.Pinjaman{
			ID: 1, AnggotaID: 1, Status: models.PinjamanPengajuan,
			JumlahPengajuan: 5_000_000, JumlahPinjaman: 5_000_000, Tenor: 12,
			JenisBunga: models.BungaPersenan, NilaiBunga: 12,
		}
		store := newFakePinjamanStore(p)
		svc := newLoanServiceForTest(store, newFakeAngsuranStore(), anggotaAktif(1))

		hasil, err := svc.Setujui(1, 4_000_000, "siti")
		require.NoError(t, err)

		assert.Equal(t, models.PinjamanDisetujui, hasil.Status)
		assert.Equal(t, int64(4_000_000), hasil.JumlahPinjaman)
		assert.Equal(t, int64(5_000_000), hasil.JumlahPengajuan, "jumlah pengajuan tidak boleh berubah")
		assert.Equal(t, "siti", hasil.DiprosesOleh.String)
		require.NotNil(t, hasil.TanggalPersetujuan)
	})

	t.Run("hanya dari PENGAJUAN", func(t *testing.T) {
		for _, status := range []string{models.PinjamanDisetujui, models.PinjamanDicairkan, models.PinjamanDitolak} {
			p := &models.Pinjaman{ID: 1, AnggotaID: 1, Status: status, JumlahPinjaman: 1_000_000, Tenor: 12, JenisBunga: models.BungaNone}
			svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(), anggotaAktif(1))

			_, err := svc.Setujui(1, 1_000_000, "admin")
			var ste *models.InvalidStateTransitionError
			require.ErrorAs(t, err, &ste, "status %s", status)
		}
	})
}

func TestTolak(t *testing.T) {
	p := &models.Pinjaman{ID: 1, AnggotaID: 1, Status: models.PinjamanPengajuan}
	svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(), anggotaAktif(1))

	hasil, err := svc.Tolak(1, "penghasilan tidak mencukupi", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.PinjamanDitolak, hasil.Status)
	assert.Equal(t, "penghasilan tidak mencukupi", hasil.AlasanPenolakan.String)

	// DITOLAK is terminal
	_, err = svc.Setujui(1, 1_000_000, "admin")
	var ste *models.InvalidStateTransitionError
	require.ErrorAs(t, err, &ste)
}

func TestKonfigurasiBunga(t *testing.T) {
	t.Run("mode tidak dikenal ditolak", func(t *testing.T) {
		p := &models.Pinjaman{ID: 1, AnggotaID: 1, Status: models.PinjamanPengajuan, JumlahPinjaman: 1_000_000, Tenor: 12}
		svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(), anggotaAktif(1))

		_, err := svc.KonfigurasiBunga(1, models.KonfigurasiBungaRequest{JenisBunga: "MENURUN", NilaiBunga: 10})
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("tidak bisa setelah pencairan", func(t *testing.T) {
		p := &models.Pinjaman{ID: 1, AnggotaID: 1, Status: models.PinjamanDicairkan, JumlahPinjaman: 1_000_000, Tenor: 12}
		svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(), anggotaAktif(1))

		_, err := svc.KonfigurasiBunga(1, models.KonfigurasiBungaRequest{JenisBunga: models.BungaNone})
		var ste *models.InvalidStateTransitionError
		require.ErrorAs(t, err, &ste)
	})
}

func TestCairkan(t *testing.T) {
	t.Run("pencairan dengan potongan angsuran berjalan", func(t *testing.T) {
		lama := &models.Pinjaman{ID: 3, AnggotaID: 1, Status: models.PinjamanDicairkan, JumlahPinjaman: 3_600_000, Tenor: 12, JenisBunga: models.BungaNone}
		baru := &models.Pinjaman{
			ID: 10, AnggotaID: 1, NoPinjaman: "RS20260105-0001",
			Status: models.PinjamanDisetujui, JumlahPinjaman: 2_000_000, Tenor: 10,
			JenisBunga: models.BungaNone,
		}
		a1 := &models.Angsuran{ID: 101, PinjamanID: 3, BulanKe: 11, Jumlah: 300_000, Status: models.AngsuranBelumBayar}
		a2 := &models.Angsuran{ID: 102, PinjamanID: 3, BulanKe: 12, Jumlah: 300_000, Status: models.AngsuranBelumBayar}

		pinjamanStore := newFakePinjamanStore(lama, baru)
		svc := newLoanServiceForTest(pinjamanStore, newFakeAngsuranStore(a1, a2), anggotaAktif(1))

		hasil, err := svc.Cairkan(10, []int{101, 102}, "admin")
		require.NoError(t, err)

		assert.Equal(t, models.PinjamanDicairkan, hasil.Pinjaman.Status)
		assert.Equal(t, int64(600_000), hasil.Pinjaman.Potongan)
		assert.Equal(t, int64(1_395_000), hasil.Netting.JumlahDiterima)
		assert.Equal(t, 10, hasil.Jadwal)
		assert.ElementsMatch(t, []int{101, 102}, pinjamanStore.cairkan)
		assert.Len(t, pinjamanStore.jadwal, 10)
	})

	t.Run("hanya dari DISETUJUI", func(t *testing.T) {
		p := &models.Pinjaman{ID: 10, AnggotaID: 1, Status: models.PinjamanPengajuan, JumlahPinjaman: 1_000_000, Tenor: 6, JenisBunga: models.BungaNone}
		svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(), anggotaAktif(1))

		_, err := svc.Cairkan(10, nil, "admin")
		var ste *models.InvalidStateTransitionError
		require.ErrorAs(t, err, &ste)
	})

	t.Run("angsuran tidak ditemukan ditolak", func(t *testing.T) {
		p := &models.Pinjaman{ID: 10, AnggotaID: 1, Status: models.PinjamanDisetujui, JumlahPinjaman: 1_000_000, Tenor: 6, JenisBunga: models.BungaNone}
		svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(), anggotaAktif(1))

		_, err := svc.Cairkan(10, []int{999}, "admin")
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestBayarAngsuran(t *testing.T) {
	t.Run("pembayaran pertama tercatat", func(t *testing.T) {
		a := &models.Angsuran{ID: 1, PinjamanID: 3, BulanKe: 1, Jumlah: 100_000, Status: models.AngsuranBelumBayar}
		svc := newLoanServiceForTest(newFakePinjamanStore(), newFakeAngsuranStore(a), anggotaAktif(1))

		tanggal := time.Date(2026, 2, 5, 0, 0, 0, 0, time.Local)
		hasil, err := svc.BayarAngsuran(1, tanggal, models.MetodeBayarManual, "tunai")
		require.NoError(t, err)

		assert.Equal(t, models.AngsuranLunas, hasil.Status)
		require.NotNil(t, hasil.TanggalBayar)
		assert.Equal(t, tanggal, *hasil.TanggalBayar)
	})

	t.Run("pembayaran kedua no-op", func(t *testing.T) {
		pertama := time.Date(2026, 2, 5, 0, 0, 0, 0, time.Local)
		a := &models.Angsuran{ID: 1, PinjamanID: 3, BulanKe: 1, Jumlah: 100_000, Status: models.AngsuranLunas, TanggalBayar: &pertama}
		svc := newLoanServiceForTest(newFakePinjamanStore(), newFakeAngsuranStore(a), anggotaAktif(1))

		hasil, err := svc.BayarAngsuran(1, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), models.MetodeBayarManual, "")
		require.NoError(t, err)

		assert.Equal(t, models.AngsuranLunas, hasil.Status)
		assert.Equal(t, pertama, *hasil.TanggalBayar, "tanggal bayar pertama tidak boleh berubah")
	})
}

func TestImportPembayaran(t *testing.T) {
	p := &models.Pinjaman{ID: 3, AnggotaID: 1, NoPinjaman: "RS20260105-0001", Status: models.PinjamanDicairkan}
	a1 := &models.Angsuran{ID: 101, PinjamanID: 3, BulanKe: 1, Jumlah: 100_000, Status: models.AngsuranBelumBayar}
	a2 := &models.Angsuran{ID: 102, PinjamanID: 3, BulanKe: 2, Jumlah: 100_000, Status: models.AngsuranLunas}
	svc := newLoanServiceForTest(newFakePinjamanStore(p), newFakeAngsuranStore(a1, a2), anggotaAktif(1))

	tanggal := time.Date(2026, 2, 5, 0, 0, 0, 0, time.Local)
	rows := []models.AngsuranImportRow{
		{NoPinjaman: "RS20260105-0001", BulanKe: 1, TanggalBayar: tanggal},
		{NoPinjaman: "RS20260105-0001", BulanKe: 2, TanggalBayar: tanggal}, // already paid
		{NoPinjaman: "RS20269999-9999", BulanKe: 1, TanggalBayar: tanggal}, // unknown loan
		{NoPinjaman: "RS20260105-0001", BulanKe: 9, TanggalBayar: tanggal}, // unknown installment
	}

	result := svc.ImportPembayaran(rows)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 1, result.PaidCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 2, result.ErrorCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, "no_pinjaman", result.Errors[0].Field)
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Equal(t, "bulan_ke", result.Errors[1].Field)
}
