// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package thermocouple

// TypeK is the ITS-90 type K reference table from -270C to 1370C in 10C steps.
var TypeK = register(mustTable("K", []Point{
	{-2700, -6458}, {-2600, -6441}, {-2500, -6404}, {-2400, -6344},
	{-2300, -6262}, {-2200, -6158}, {-2100, -6035}, {-2000, -5891},
	{-1900, -5730}, {-1800, -5550}, {-1700, -5354}, {-1600, -5141},
	{-1500, -4913}, {-1400, -4669}, {-1300, -4411}, {-1200, -4138},
	{-1100, -3852}, {-1000, -3554}, {-900, -3243}, {-800, -2920},
	{-700, -2587}, {-600, -2243}, {-500, -1889}, {-400, -1527},
	{-300, -1156}, {-200, -778}, {-100, -392}, {0, 0},
	{100, 397}, {200, 798}, {300, 1203}, {400, 1612},
	{500, 2023}, {600, 2436}, {700, 2851}, {800, 3267},
	{900, 3682}, {1000, 4096}, {1100, 4509}, {1200, 4920},
	{1300, 5328}, {1400, 5735}, {1500, 6138}, {1600, 6540},
	{1700, 6941}, {1800, 7340}, {1900, 7739}, {2000, 8138},
	{2100, 8539}, {2200, 8940}, {2300, 9343}, {2400, 9747},
	{2500, 10153}, {2600, 10561}, {2700, 10971}, {2800, 11382},
	{2900, 11795}, {3000, 12209}, {3100, 12624}, {3200, 13040},
	{3300, 13457}, {3400, 13874}, {3500, 14293}, {3600, 14713},
	{3700, 15133}, {3800, 15554}, {3900, 15975}, {4000, 16397},
	{4100, 16820}, {4200, 17243}, {4300, 17667}, {4400, 18091},
	{4500, 18516}, {4600, 18941}, {4700, 19366}, {4800, 19792},
	{4900, 20218}, {5000, 20644}, {5100, 21071}, {5200, 21497},
	{5300, 21924}, {5400, 22350}, {5500, 22776}, {5600, 23203},
	{5700, 23629}, {5800, 24055}, {5900, 24480}, {6000, 24905},
	{6100, 25330}, {6200, 25755}, {6300, 26179}, {6400, 26602},
	{6500, 27025}, {6600, 27447}, {6700, 27869}, {6800, 28289},
	{6900, 28710}, {7000, 29129}, {7100, 29548}, {7200, 29965},
	{7300, 30382}, {7400, 30798}, {7500, 31213}, {7600, 31628},
	{7700, 32041}, {7800, 32453}, {7900, 32865}, {8000, 33275},
	{8100, 33685}, {8200, 34093}, {8300, 34501}, {8400, 34908},
	{8500, 35313}, {8600, 35718}, {8700, 36121}, {8800, 36524},
	{8900, 36925}, {9000, 37326}, {9100, 37725}, {9200, 38124},
	{9300, 38522}, {9400, 38918}, {9500, 39314}, {9600, 39708},
	{9700, 40101}, {9800, 40494}, {9900, 40885}, {10000, 41276},
	{10100, 41665}, {10200, 42053}, {10300, 42440}, {10400, 42826},
	{10500, 43211}, {10600, 43595}, {10700, 43978}, {10800, 44359},
	{10900, 44740}, {11000, 45119}, {11100, 45497}, {11200, 45873},
	{11300, 46249}, {11400, 46623}, {11500, 46995}, {11600, 47367},
	{11700, 47737}, {11800, 48105}, {11900, 48473}, {12000, 48838},
	{12100, 49202}, {12200, 49565}, {12300, 49926}, {12400, 50286},
	{12500, 50644}, {12600, 51000}, {12700, 51355}, {12800, 51708},
	{12900, 52060}, {13000, 52410}, {13100, 52759}, {13200, 53106},
	{13300, 53451}, {13400, 53795}, {13500, 54138}, {13600, 54479},
	{13700, 54819},
}))
