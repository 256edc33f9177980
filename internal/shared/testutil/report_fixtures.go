package testutil

// SalesExport is a sales report export for event EVT. With the default
// "LENS" prefix the lot sits at offset 7: lots "0" and "1" for EVT, and one
// record of another event.
const SalesExport = `Relatorio de vendas - exportado
Pedido Produto Codigo
3 ABC123 640x480 Pixels LENSEVT001
5 XYZ 800x600 Pixels LENSEVT002
5 Alta Resolução 3000 Pixels LENSEVT1A9
8 Alta Resolução 3000 Pixels LENSOUTRO01
9 Alta Resolução 3000 Pixels LENSEVT1B2
Total 5 fotos`

// SalesExportEvent is the event code of SalesExport.
const SalesExportEvent = "EVT"

// TimingExport lists order timestamps for the orders of SalesExport plus an
// unrelated order and an invalid date.
const TimingExport = `Pedido Data
3 15/03/2024 10:30
5 15/03/2024 12:10
9 16/03/2024 09:00
42 15/03/2024 08:00
77 31/02/2024 10:00`

// TimingReference is the release time that goes with TimingExport.
const TimingReference = "15/03/2024 10:00:00"
